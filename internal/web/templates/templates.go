// Package templates renders the server-side HTML pages.
//
// Components are plain templ.ComponentFunc values; every dynamic string is
// passed through templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/insight"
)

const styles = `body{font-family:sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;width:100%}th,td{border:1px solid #d1d5db;padding:.35rem .5rem;text-align:left}
th{background:#f3f4f6}nav a{margin-right:1rem}.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem}
.muted{color:#6b7280}`

// Layout wraps body in the shared page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body>`,
			templ.EscapeString(title), styles); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<nav><a href="/">データカタログ</a><a href="/insights">インサイト管理</a></nav><main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// CatalogPage lists tables and users. query is echoed into the search box.
func CatalogPage(tables []catalog.DataTable, users []catalog.User, query string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>データカタログ</h1>`)
		fmt.Fprintf(&b, `<form method="get" action="/"><input type="search" name="q" value="%s" placeholder="検索"><button>検索</button></form>`,
			templ.EscapeString(query))

		if len(tables) == 0 {
			b.WriteString(`<p class="muted">テーブルがありません</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>システム名</th><th>テーブル物理名</th><th>テーブル論理名</th><th>テーブル概要</th><th>更新者</th><th>更新日時</th><th></th></tr></thead><tbody>`)
			for _, t := range tables {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><a href="/api/backup/csv/%d">CSV</a></td></tr>`,
					templ.EscapeString(t.SystemName),
					templ.EscapeString(t.TablePhysicalName),
					templ.EscapeString(t.TableLogicalName),
					templ.EscapeString(t.TableDescription),
					templ.EscapeString(t.Updater),
					templ.EscapeString(t.UpdatedAt),
					t.ID)
			}
			b.WriteString(`</tbody></table>`)
		}

		b.WriteString(`<h2>ユーザー</h2><ul>`)
		for _, u := range users {
			fmt.Fprintf(&b, `<li>%s (%s)</li>`, templ.EscapeString(u.Name), templ.EscapeString(u.Role))
		}
		b.WriteString(`</ul>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
	return Layout("データカタログ", body)
}

// InsightsPage lists insights with their main attributes.
func InsightsPage(records []*insight.Insight) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>インサイト管理</h1><p><a href="/api/insights/export/csv">CSVエクスポート</a></p>`)
		if len(records) == 0 {
			b.WriteString(`<p class="muted">インサイトがありません</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>作成番号</th><th>インサイトID</th><th>インサイト件名</th><th>表示ステータス</th><th>メインカテゴリ</th><th>対象銀行</th><th>更新者</th></tr></thead><tbody>`)
			for _, r := range records {
				fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					r.CreationNumber,
					templ.EscapeString(r.InsightID),
					templ.EscapeString(r.Subject),
					templ.EscapeString(r.Status),
					templ.EscapeString(r.MainCategory),
					templ.EscapeString(strings.Join(r.TargetBanks, ", ")),
					templ.EscapeString(r.UpdatedBy))
			}
			b.WriteString(`</tbody></table>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return Layout("インサイト管理", body)
}

// ErrorAlert renders a user-facing error fragment.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="alert" role="alert"><strong>%s</strong> <span class="muted">(%s)</span><p>%s</p></div>`,
			templ.EscapeString(message), templ.EscapeString(code), templ.EscapeString(action))
		return err
	})
}
