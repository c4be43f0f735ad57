package site

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/okian/wask/internal/domain/model"
)

//go:embed templates/leaderboard.html
var templateFS embed.FS

var leaderboardTmpl = template.Must(template.New("leaderboard.html").Funcs(template.FuncMap{
	"medal":   medalClass,
	"seconds": formatSeconds,
}).ParseFS(templateFS, "templates/leaderboard.html"))

// medalClass returns the row class for the podium positions.
func medalClass(rank int) string {
	switch rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RenderLeaderboard renders the HTML leaderboard for rows already in display
// order. It does no I/O; user-supplied text is HTML-escaped.
func RenderLeaderboard(rows []model.RankedScore) (string, error) {
	var b strings.Builder
	if err := leaderboardTmpl.Execute(&b, struct{ Rows []model.RankedScore }{Rows: rows}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return b.String(), nil
}
