package icon

import (
	"context"
	"fmt"
	"regexp"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
)

const defaultAPKComboTemplate = "https://apkcombo.com/genericApp/%s"

var sizeSuffix = regexp.MustCompile(`=.*$`)

// APKCombo scrapes the generic app page of the catalog.
type APKCombo struct {
	session  *httputil.Session
	template string
}

func NewAPKCombo(session *httputil.Session) *APKCombo {
	return &APKCombo{session: session, template: defaultAPKComboTemplate}
}

func (c *APKCombo) Name() string { return "apkcombo" }

func (c *APKCombo) Resolve(ctx context.Context, packageName string) (string, error) {
	pageURL := fmt.Sprintf(c.template, packageName)
	doc, err := c.session.GetDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	src, err := httputil.SelectAttr(doc, "div.avatar > img", "data-src", pageURL)
	if err != nil {
		return "", err
	}
	return sizeSuffix.ReplaceAllString(src, ""), nil
}
