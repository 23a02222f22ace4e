package openapi

import (
	"html/template"
	"net/http"
)

var uiTemplate = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui" data-spec="{{.SpecURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = function () {
      var root = document.getElementById("swagger-ui");
      window.ui = SwaggerUIBundle({ url: root.dataset.spec, dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`))

// UIHandler serves a Swagger UI page that loads the document from specURL.
func UIHandler(title, specURL string) http.Handler {
	data := struct {
		Title   string
		SpecURL string
	}{title, specURL}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := uiTemplate.Execute(w, data); err != nil {
			http.Error(w, "failed to render documentation page", http.StatusInternalServerError)
		}
	})
}
