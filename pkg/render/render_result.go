// Render HTML for viewing a classification result

package render

import (
	"fmt"
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/model"
)

var result_page_template *template.Template

type classRow struct {
	Name      string
	Prob      float64
	Predicted bool
}

type resultPageData struct {
	Result *types.ClassifyResponse
	Rows   []classRow
}

// init initializes the templates used for rendering the result page.
func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
	    <title>BGC class: {{ .Result.ClassName }}</title>
	    <style>
	        table { border-collapse: collapse; }
	        td, th { border: 1px solid #ccc; padding: 2px 6px; }
	        .predicted { font-weight: bold; background: #eef; }
	    </style>
	</head>
	<body>
		<h1>{{ .Result.FileName }}</h1>
		<p><strong>Key:</strong> {{ .Result.Key }}</p>
		<p><strong>Backend:</strong> {{ .Result.Backend }}</p>
		<h2>Prediction</h2>
		<table>
			<tr><th>Class</th><th>Probability</th></tr>
			{{ range .Rows }}
			<tr{{ if .Predicted }} class="predicted"{{ end }}><td>{{ .Name }}</td><td>{{ printf "%.4f" .Prob }}</td></tr>
			{{ end }}
		</table>
		<h2>Proteins ({{ len .Result.BioCluster }})</h2>
		<table>
			<tr><th>#</th><th>Locus tag</th><th>Gene</th><th>Product</th><th>Location</th><th>Strand</th><th>Length (aa)</th></tr>
			{{ range $i, $p := .Result.BioCluster }}
			<tr>
				<td>{{ $i }}</td>
				<td>{{ opt $p.LocusTag }}</td>
				<td>{{ opt $p.Gene }}</td>
				<td>{{ opt $p.Product }}</td>
				<td>{{ index $p.Location 0 }}..{{ index $p.Location 1 }}</td>
				<td>{{ $p.Strand }}</td>
				<td>{{ len $p.Translation.Value }}</td>
			</tr>
			{{ end }}
		</table>
	</body>
	</html>`

	result_page_template = template.New("result_page").Funcs(template.FuncMap{
		"opt": optionalText,
	})
	result_page_template = template.Must(result_page_template.Parse(mainTmpl))
}

func optionalText(o model.Optional) string {
	if !o.Valid {
		return "-"
	}
	return o.Value
}

func classRows(res *types.ClassifyResponse) []classRow {
	rows := make([]classRow, len(res.Prob))
	for i, p := range res.Prob {
		name := fmt.Sprintf("class_%d", i)
		if i < len(res.Classes) {
			name = res.Classes[i]
		}
		rows[i] = classRow{Name: name, Prob: p, Predicted: i == res.BGCClass}
	}
	return rows
}

// RenderResultPage writes the HTML page of one stored result.
func RenderResultPage(w io.Writer, res *types.ClassifyResponse) error {
	logger.Debug("Rendering result page", zap.String("key", res.Key))
	return result_page_template.Execute(w, resultPageData{Result: res, Rows: classRows(res)})
}
