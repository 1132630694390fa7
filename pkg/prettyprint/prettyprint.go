package prettyprint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Fprint writes v to w as tab indented JSON followed by a newline.
func Fprint(w io.Writer, v any) error {
	s, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(s))
	return err
}
