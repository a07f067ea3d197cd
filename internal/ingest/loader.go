package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tmc/langchaingo/schema"
)

// LoadDir enumerates the documents directly under dir and loads each one.
// PDFs yield one document per page; .txt and .md files yield one document
// each. Files with other extensions are skipped. Any unreadable matching
// file aborts the load.
func LoadDir(dir string) ([]schema.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents dir: %w", err)
	}
	var docs []schema.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf":
			pages, err := loadPDF(path)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
			docs = append(docs, pages...)
		case ".txt", ".md":
			doc, ok, err := loadText(path)
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
			if ok {
				docs = append(docs, doc)
			}
		}
	}
	return docs, nil
}

func loadPDF(path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	var docs []schema.Document
	for i := 1; i <= numPages; i++ {
		text, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, schema.Document{
			PageContent: text,
			Metadata: map[string]any{
				"source":      path,
				"page":        i,
				"total_pages": numPages,
			},
		})
	}
	return docs, nil
}

func loadText(path string) (schema.Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, false, err
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return schema.Document{}, false, nil
	}
	return schema.Document{
		PageContent: content,
		Metadata:    map[string]any{"source": path},
	}, true, nil
}
