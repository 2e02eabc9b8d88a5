package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// listEntry is one row of a directory listing, derived fresh from the
// filesystem on every request.
type listEntry struct {
	Name    string
	Href    string // percent-escaped, relative; directories end in "/"
	IsDir   bool
	Size    string // human readable, blank for directories
	ModTime string
}

type listingData struct {
	Path    string
	Parent  string // "../" unless at the share root
	Entries []listEntry
}

const modTimeFormat = "2006-01-02 15:04:05"

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>File Share Directory</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .container { max-width: 800px; margin: 0 auto; }
        .path { color: #666; word-break: break-all; }
        .file-list { list-style: none; padding: 0; }
        .file-item {
            padding: 10px;
            border-bottom: 1px solid #eee;
            display: flex;
            justify-content: space-between;
            align-items: center;
        }
        .file-item:hover { background-color: #f5f5f5; }
        .file-link { text-decoration: none; color: #2196F3; word-break: break-all; }
        .dir-link { font-weight: bold; }
        .file-info { color: #666; font-size: 0.9em; white-space: nowrap; margin-left: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Files Available for Download</h2>
        <p class="path">{{.Path}}</p>
        <ul class="file-list">
{{- if .Parent}}
            <li class="file-item"><a href="{{.Parent}}" class="file-link dir-link">../</a></li>
{{- end}}
{{- range .Entries}}
            <li class="file-item">
                <a href="{{.Href}}" class="file-link{{if .IsDir}} dir-link{{end}}">{{.Name}}{{if .IsDir}}/{{end}}</a>
                <span class="file-info">{{if .IsDir}}&mdash;{{else}}{{.Size}}{{end}} | {{.ModTime}}</span>
            </li>
{{- end}}
        </ul>
    </div>
</body>
</html>
`))

// renderListing writes the HTML listing for dirPath, the resolved
// counterpart of requestPath. requestPath always ends in "/" here, so
// the relative hrefs resolve against it.
func (h *Handler) renderListing(w http.ResponseWriter, dirPath, requestPath string) error {
	dirents, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		if !h.showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// Entry vanished between ReadDir and Stat; skip it.
			continue
		}

		e := listEntry{
			Name:    name,
			Href:    url.PathEscape(name),
			IsDir:   d.IsDir(),
			ModTime: info.ModTime().Format(modTimeFormat),
		}
		if e.IsDir {
			e.Href += "/"
		} else {
			e.Size = humanize.IBytes(uint64(info.Size()))
		}
		entries = append(entries, e)
	}

	sortEntries(entries)

	// Render into a buffer first so a template failure can still become
	// a clean 500 instead of a half-written page.
	var buf bytes.Buffer
	if err := listingTmpl.Execute(&buf, listingData{
		Path:    requestPath,
		Parent:  parentLink(requestPath),
		Entries: entries,
	}); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}

// sortEntries orders directories before files, then case-insensitively
// by name. The raw name breaks ties so output stays deterministic when
// names differ only by case.
func sortEntries(entries []listEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}

// parentLink returns the relative parent href, or "" at the share root.
func parentLink(requestPath string) string {
	if requestPath == "/" {
		return ""
	}
	return "../"
}
