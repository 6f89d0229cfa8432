package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"qa-datagen/internal/models"
)

// Loader turns document files into chunks sized for prompting.
type Loader struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewLoader(chunkSize, chunkOverlap int) *Loader {
	return &Loader{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Load dispatches on the file extension and returns the document content as
// an ordered chunk list.
func (l *Loader) Load(filePath string) ([]models.Chunk, error) {
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".pdf":
		return l.loadPDF(filePath)
	case ".docx":
		return l.loadDOCX(filePath)
	case ".pptx":
		return l.loadPPTX(filePath)
	case ".xlsx":
		return l.loadXLSX(filePath)
	case ".ods":
		return l.loadODS(filePath)
	case ".txt", ".md":
		return l.loadText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func (l *Loader) loadPDF(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
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

	var chunks []models.Chunk
	for page := 1; page <= reader.NumPage(); page++ {
		text, err := reader.Page(page).GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		markdown, err := normalizeMarkdown(text)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, l.chunkPage(markdown, page)...)
	}
	return chunks, nil
}

func (l *Loader) loadDOCX(filePath string) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	markdown, err := normalizeMarkdown(content)
	if err != nil {
		return nil, err
	}
	// DOCX carries no page numbers
	return l.chunkPage(markdown, 1), nil
}

func (l *Loader) loadPPTX(filePath string) ([]models.Chunk, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	slide := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slide++
		markdown, err := normalizeMarkdown(slideText(string(data)))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, l.chunkPage(markdown, slide)...)
	}
	return chunks, nil
}

func (l *Loader) loadXLSX(filePath string) ([]models.Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		markdown, err := normalizeMarkdown(text.String())
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, l.chunkPage(markdown, sheetNum+1)...)
	}
	return chunks, nil
}

func (l *Loader) loadODS(filePath string) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		markdown, err := normalizeMarkdown(text.String())
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, l.chunkPage(markdown, sheetNum+1)...)
	}
	return chunks, nil
}

func (l *Loader) loadText(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	markdown, err := normalizeMarkdown(string(data))
	if err != nil {
		return nil, err
	}
	return l.chunkPage(markdown, 1), nil
}

// normalizeMarkdown renders the raw text through goldmark so headings,
// tables and lists come out in a consistent shape for prompting.
func normalizeMarkdown(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.Trim(buf.String(), " \t\n\r"), nil
}

// slideText pulls the visible run text out of a slide's XML.
func slideText(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if end := strings.Index(part, "</a:t>"); end >= 0 {
			text.WriteString(part[:end] + " ")
		}
	}
	return text.String()
}

// chunkPage splits one page's content and tags the pieces with the page
// number and a 1-based chunk id.
func (l *Loader) chunkPage(content string, pageNumber int) []models.Chunk {
	var chunks []models.Chunk
	for i, piece := range splitContent(content, l.ChunkSize, l.ChunkOverlap) {
		chunks = append(chunks, models.Chunk{
			Content:    piece,
			PageNumber: pageNumber,
			ChunkID:    i + 1,
		})
	}
	return chunks
}

// splitContent cuts content into pieces of at most maxChars, overlapping
// consecutive pieces by overlapChars. Piece boundaries prefer a space,
// newline or period within the last tenth of the piece.
func splitContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= maxChars {
		return []string{content}
	}

	var pieces []string
	for start := 0; start < len(content); start += maxChars - overlapChars {
		end := min(start+maxChars, len(content))
		if end < len(content) {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}
		if piece := strings.TrimSpace(content[start:end]); piece != "" {
			pieces = append(pieces, piece)
		}
		if end == len(content) {
			break
		}
	}
	return pieces
}
