package assets

import (
	"embed"
	"html/template"
	"io"
)

//go:embed board.html landing.html
var FS embed.FS

var funcs = template.FuncMap{
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

var (
	boardTmpl   = template.Must(template.New("board.html").Funcs(funcs).ParseFS(FS, "board.html"))
	landingTmpl = template.Must(template.ParseFS(FS, "landing.html"))
)

// RenderBoard writes the scoreboard page for data.
func RenderBoard(w io.Writer, data any) error {
	return boardTmpl.Execute(w, data)
}

// RenderLanding writes the page that mounts a new board on submit.
func RenderLanding(w io.Writer) error {
	return landingTmpl.Execute(w, nil)
}
