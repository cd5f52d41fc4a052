package assets

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/wolfeidau/enactpack/internal/webpack"
)

// IndexFile is the page written to the output directory.
const IndexFile = "index.html"

//go:embed templates/index.html
var defaultTemplate string

var scriptTypes = regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$")

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"marshal": marshal,
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec
		},
	}
}

// loadTemplate parses the page template. EJS templates cannot be rendered
// here and fall back to the built in page.
func loadTemplate(path string) (*template.Template, error) {
	tmpl := template.New(IndexFile).Funcs(templateFuncs())
	if path == "" || filepath.Ext(path) == ".ejs" {
		return tmpl.Parse(defaultTemplate)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return tmpl.Parse(string(data))
}

// writeHTML renders the index page with the scripts and stylesheets of every
// entry injected.
func (p *Pipeline) writeHTML() error {
	plugin, ok := webpack.Find[*webpack.HTMLPlugin](p.config.Webpack.Plugins)
	if !ok {
		return nil
	}

	var scripts, styles []string
	for _, entry := range slices.Sorted(maps.Keys(p.config.Webpack.Entry)) {
		s, c, err := p.LoadAssets(entry)
		if err != nil {
			return err
		}
		scripts = append(scripts, s...)
		styles = append(styles, c...)
	}

	tmpl, err := loadTemplate(plugin.Template)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Title":   plugin.Title,
		"Scripts": scripts,
		"Styles":  styles,
	})
	if err != nil {
		return err
	}

	page := buf.Bytes()
	if plugin.Minify != nil {
		if page, err = minifyHTML(page, plugin.Minify); err != nil {
			return err
		}
	}

	target := filepath.Join(p.outdir(), IndexFile)
	if err := os.WriteFile(target, page, 0o644); err != nil { //nolint:gosec
		return err
	}

	log.Debug().Str("file", target).Strs("scripts", scripts).Strs("styles", styles).Msg("Wrote page")
	return nil
}

func minifyHTML(page []byte, opts *webpack.HTMLMinifyOptions) ([]byte, error) {
	m := minify.New()
	m.Add("text/html", &mhtml.Minifier{
		KeepComments:        !opts.RemoveComments,
		KeepWhitespace:      !opts.CollapseWhitespace,
		KeepDefaultAttrVals: !opts.RemoveRedundantAttributes,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	if opts.MinifyCSS {
		m.AddFunc("text/css", css.Minify)
	}
	if opts.MinifyJS {
		m.AddFuncRegexp(scriptTypes, js.Minify)
	}
	return m.Bytes("text/html", page)
}

func marshal(value any) string {
	buf := new(bytes.Buffer)

	if err := json.NewEncoder(buf).Encode(value); err != nil {
		panic(errors.New("context can only be json serializable"))
	}

	return buf.String()
}
