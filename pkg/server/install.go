package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
)

//nolint:gochecknoglobals // Parsed once
var installPage = template.Must(template.New("install").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CV Anon bookmarklet</title>
</head>
<body>
<h1>CV Anon</h1>
<p>Drag the links below to your bookmarks bar. Open a candidate in Smart Recruiters, then click a bookmark to download their anonymised profile.</p>
<ul>
<li><a href="{{.Word}}">Anonymise CV</a></li>
<li><a href="{{.JSON}}">Anonymise CV (JSON)</a></li>
</ul>
</body>
</html>
`))

type installData struct {
	Word template.URL
	JSON template.URL
}

// bookmarklet returns javascript that opens the profile for the candidate
// shown in the current Smart Recruiters page.
func bookmarklet(baseURL, format string) (js template.URL) {
	script := `javascript:(function(){` +
		`var m=window.location.href.match(/candidates\/([0-9a-fA-F-]{36})(?:\/jobs\/([0-9a-fA-F-]{36}))?/);` +
		`if(!m){alert('Open a candidate in Smart Recruiters first');return;}` +
		`var u='` + template.JSEscapeString(strings.TrimRight(baseURL, "/")) + `/'+m[1]+'?f=` + format + `';` +
		`if(m[2]){u+='&jobId='+m[2];}` +
		`window.open(u);})();`
	js = template.URL(script) //nolint:gosec // Built from trusted configuration
	return js
}

func (s *Server) handleInstall(w http.ResponseWriter, _ *http.Request) {
	data := installData{
		Word: bookmarklet(s.cfg.BookmarkletBaseURL, FormatWord),
		JSON: bookmarklet(s.cfg.BookmarkletBaseURL, FormatJSON),
	}

	var buf bytes.Buffer
	err := installPage.Execute(&buf, data)
	if err != nil {
		s.logger.Error("failed to render install page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
