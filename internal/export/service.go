// Package export assembles a deal's closing packet: its documents plus a summary sheet.
package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/document"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const summaryFile = "summary.txt"

// ErrDownloadFailed means a document could not be fetched from the CDN.
var ErrDownloadFailed = errors.New("document download failed")

type DealGetter interface {
	Get(ctx context.Context, sess session.Session, id uuid.UUID) (*deal.Deal, error)
}

type DocumentLister interface {
	List(ctx context.Context, sess session.Session, filter document.ListFilter) ([]*document.Document, error)
}

// Item is a deal document with its downloaded local path.
type Item struct {
	Document *document.Document
	FilePath string
}

// Packet is everything exported for one deal.
type Packet struct {
	Deal  *deal.Deal
	Items []Item
}

// Service downloads deal documents from the CDN and bundles them.
type Service struct {
	deals     DealGetter
	documents DocumentLister
	client    *http.Client
}

func NewService(deals DealGetter, documents DocumentLister) *Service {
	return &Service{
		deals:     deals,
		documents: documents,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Export downloads every document attached to the deal into outputDir.
func (s *Service) Export(ctx context.Context, sess session.Session, dealID uuid.UUID, outputDir string) (*Packet, error) {
	d, err := s.deals.Get(ctx, sess, dealID)
	if err != nil {
		return nil, fmt.Errorf("getting deal: %w", err)
	}

	docs, err := s.documents.List(ctx, sess, document.ListFilter{DealID: &dealID})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	p := &Packet{Deal: d, Items: make([]Item, 0, len(docs))}

	for i, doc := range docs {
		item := Item{Document: doc}

		if doc.URL != "" {
			path, err := s.download(ctx, doc, i+1, outputDir)
			if err != nil {
				return nil, fmt.Errorf("downloading document %s: %w", doc.ID, err)
			}

			item.FilePath = path
		}

		p.Items = append(p.Items, item)
	}

	return p, nil
}

func (s *Service) download(ctx context.Context, doc *document.Document, n int, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status code %d for url %s", ErrDownloadFailed, resp.StatusCode, doc.URL)
	}

	// Numbered so two documents with the same name do not collide.
	filename := fmt.Sprintf("%02d_%s", n, determineFilename(resp, doc))
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

func determineFilename(resp *http.Response, doc *document.Document) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return sanitize(filepath.Base(filename))
			}
		}
	}

	ext := path.Ext(resp.Request.URL.Path)
	if ext == "" {
		ct := resp.Header.Get("Content-Type")
		if ct == "" {
			ct = doc.MimeType
		}

		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	name := strings.TrimSuffix(doc.Name, ext)
	if name == "" {
		name = string(doc.Type)
	}

	return sanitize(name) + ext
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, name)
}

// GenerateSummary renders the closing summary sheet for a packet.
func (s *Service) GenerateSummary(p *Packet) string {
	var sb strings.Builder

	d := p.Deal

	fmt.Fprintf(&sb, "Deal: %s\n", d.PropertyAddress)
	fmt.Fprintf(&sb, "Status: %s (%.0f%%)\n", d.Status.Label(), d.Progress()*100)
	fmt.Fprintf(&sb, "Buyer: %s\n", orDash(d.BuyerName))
	fmt.Fprintf(&sb, "Seller: %s\n", orDash(d.SellerName))
	fmt.Fprintf(&sb, "Purchase price: $%s\n", d.PurchasePrice.StringFixed(2))
	fmt.Fprintf(&sb, "Offer price: $%s\n", d.OfferPrice.StringFixed(2))
	fmt.Fprintf(&sb, "Commission: %s%% = $%s\n", d.CommissionPercent.String(), d.CommissionAmount.StringFixed(2))
	fmt.Fprintf(&sb, "Agent earnings: %s%% split = $%s\n", d.CommissionSplit.String(), d.AgentEarnings.StringFixed(2))
	fmt.Fprintf(&sb, "Contract date: %s\n", formatDate(d.ContractDate))
	fmt.Fprintf(&sb, "Expected close: %s\n", formatDate(d.ExpectedCloseDate))
	fmt.Fprintf(&sb, "Actual close: %s\n", formatDate(d.ActualCloseDate))

	if d.Notes != "" {
		fmt.Fprintf(&sb, "\nNotes:\n%s\n", d.Notes)
	}

	sb.WriteString("\nDocuments:\n")

	if len(p.Items) == 0 {
		sb.WriteString("(none)\n")
	}

	for _, item := range p.Items {
		file := "Not downloaded"
		if item.FilePath != "" {
			file = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | %s\n", item.Document.Name, item.Document.Type, file)
	}

	return sb.String()
}

// WriteZip exports the deal's packet into a temporary directory and streams
// it to w as a zip archive with the summary sheet at its root.
func (s *Service) WriteZip(ctx context.Context, sess session.Session, dealID uuid.UUID, w io.Writer) error {
	dir, err := os.MkdirTemp("", "dealdesk-packet-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	p, err := s.Export(ctx, sess, dealID, dir)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	sw, err := zw.Create(summaryFile)
	if err != nil {
		return fmt.Errorf("adding summary: %w", err)
	}

	if _, err := io.WriteString(sw, s.GenerateSummary(p)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	for _, item := range p.Items {
		if item.FilePath == "" {
			continue
		}

		if err := addFile(zw, item.FilePath); err != nil {
			return err
		}
	}

	return zw.Close()
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fw, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}

	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Format("2006-01-02")
}
