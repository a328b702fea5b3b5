package corpus

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

//go:embed data/*.txt
var embedded embed.FS

// DocumentIDs are the fixed corpus ids, in load order.
var DocumentIDs = []string{"doc1", "doc2", "doc3", "doc4", "doc5"}

type Document struct {
	ID   string
	Text string
}

// Default returns the five NFL documents compiled into the binary.
func Default() ([]Document, error) {
	docs := make([]Document, 0, len(DocumentIDs))
	for _, id := range DocumentIDs {
		b, err := embedded.ReadFile("data/" + id + ".txt")
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", id, err)
		}
		docs = append(docs, Document{ID: id, Text: string(b)})
	}
	return docs, nil
}

// LoadDir reads <dir>/docN.txt for every fixed id. A docN.pdf is accepted in
// place of a missing text file.
func LoadDir(dir string) ([]Document, error) {
	docs := make([]Document, 0, len(DocumentIDs))
	for _, id := range DocumentIDs {
		text, err := readDocument(dir, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Text: text})
	}
	return docs, nil
}

func readDocument(dir, id string) (string, error) {
	txtPath := filepath.Join(dir, id+".txt")
	b, err := os.ReadFile(txtPath)
	if err == nil {
		return string(b), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", txtPath, err)
	}

	pdfPath := filepath.Join(dir, id+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		return "", fmt.Errorf("read %s: %w", txtPath, err)
	}
	return readPDF(pdfPath)
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return buf.String(), nil
}
