package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/student-agreement-api/internal/agreement"
	"github.com/noah-isme/student-agreement-api/internal/models"
)

const (
	margin         = 20.0
	signatureWidth = 80.0
	signatureH     = 30.0
)

var infoFields = []struct {
	key   string
	label string
}{
	{"fullName", "Full Name:"},
	{"email", "Email:"},
	{"phone", "Phone:"},
	{"course", "Course:"},
	{"studentId", "Student ID:"},
	{"date", "Date:"},
}

// Renderer turns a submission's form data and signatures into the signed
// agreement PDF. A malformed signature image degrades to a placeholder
// notice; it never fails the document.
type Renderer struct {
	doc agreement.Document
}

// NewRenderer constructs a renderer around the given agreement text.
func NewRenderer(doc agreement.Document) *Renderer {
	return &Renderer{doc: doc}
}

// Render produces the finished document. Admin data and signature are
// optional; when both are present an approval block is appended.
func (r *Renderer) Render(form map[string]string, signatureDataURL string, admin *models.AdminData, adminSignatureDataURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - margin*2
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	r.renderHeader(pdf, pageWidth)
	r.renderStudentInfo(pdf, form, contentWidth)
	r.renderTerms(pdf, contentWidth, pageHeight)
	r.renderStudentSignature(pdf, form, signatureDataURL, pageWidth, pageHeight)

	if admin != nil && adminSignatureDataURL != "" {
		r.renderApprovalBlock(pdf, admin, adminSignatureDataURL, contentWidth, pageHeight)
	}

	r.renderFooter(pdf, pageWidth, pageHeight)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render agreement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderHeader(pdf *gofpdf.Fpdf, pageWidth float64) {
	pdf.SetFillColor(88, 56, 163)
	pdf.Rect(0, 0, pageWidth, 35, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 10)
	pdf.CellFormat(pageWidth, 8, r.doc.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(0, 22)
	pdf.CellFormat(pageWidth, 6, fmt.Sprintf("Last Updated: %s", r.doc.LastUpdated), "", 1, "C", false, 0, "")

	pdf.SetY(45)
}

func (r *Renderer) renderStudentInfo(pdf *gofpdf.Fpdf, form map[string]string, contentWidth float64) {
	top := pdf.GetY()
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 252)
	pdf.RoundedRect(margin, top, contentWidth, 45, 3, "1234", "FD")

	pdf.SetTextColor(88, 56, 163)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin+6, top+10, "Student Information")

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFontSize(10)

	lines := make([][2]string, 0, len(infoFields))
	for _, field := range infoFields {
		if value := form[field.key]; value != "" {
			lines = append(lines, [2]string{field.label, value})
		}
	}

	colWidth := contentWidth / 2
	for i, line := range lines {
		x := margin + 6
		if i%2 == 1 {
			x = margin + colWidth + 6
		}
		lineY := top + 18 + float64(i/2)*8
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(x, lineY, line[0])
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(x+29, lineY, line[1])
	}

	pdf.SetY(top + 55)
}

func (r *Renderer) renderTerms(pdf *gofpdf.Fpdf, contentWidth, pageHeight float64) {
	y := pdf.GetY()
	pdf.SetTextColor(88, 56, 163)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Text(margin, y, "Agreement Terms")

	pdf.SetDrawColor(88, 56, 163)
	pdf.SetLineWidth(0.5)
	pdf.Line(margin, y+3, margin+40, y+3)
	pdf.SetY(y + 11)

	for _, section := range r.doc.Sections {
		if pdf.GetY() > pageHeight-50 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(88, 56, 163)
		pdf.MultiCell(contentWidth, 6, section.Heading, "", "L", false)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(70, 70, 70)
		pdf.MultiCell(contentWidth, 5, section.Content, "", "L", false)
		pdf.Ln(4)
	}
}

func (r *Renderer) renderStudentSignature(pdf *gofpdf.Fpdf, form map[string]string, signatureDataURL string, pageWidth, pageHeight float64) {
	if pdf.GetY() > pageHeight-80 {
		pdf.AddPage()
	}
	y := pdf.GetY()

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin, y, pageWidth-margin, y)
	y += 10

	pdf.SetTextColor(88, 56, 163)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin, y, "Student Digital Signature")
	y += 6

	r.placeSignature(pdf, signatureDataURL, "student-signature", y)
	y += signatureH + 5

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin, y, margin+signatureWidth, y)
	y += 6

	signer := form["fullName"]
	if signer == "" {
		signer = "N/A"
	}
	pdf.SetTextColor(70, 70, 70)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(margin, y, fmt.Sprintf("Signed by: %s", signer))
	pdf.Text(margin, y+5, fmt.Sprintf("Date: %s", time.Now().Format("January 2, 2006")))
	pdf.SetY(y + 10)
}

func (r *Renderer) renderApprovalBlock(pdf *gofpdf.Fpdf, admin *models.AdminData, adminSignatureDataURL string, contentWidth, pageHeight float64) {
	if pdf.GetY() > pageHeight-100 {
		pdf.AddPage()
	}
	y := pdf.GetY() + 10

	pdf.SetDrawColor(88, 56, 163)
	pdf.SetFillColor(240, 238, 252)
	pdf.RoundedRect(margin, y, contentWidth, 10, 2, "1234", "FD")
	pdf.SetTextColor(88, 56, 163)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(margin+6, y+7, "Admin Approval")
	y += 18

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(margin, y, fmt.Sprintf("Approved by: %s", admin.AdminName))
	y += 6

	if admin.Notes != "" {
		pdf.SetXY(margin, y-4)
		pdf.MultiCell(contentWidth, 5, fmt.Sprintf("Notes: %s", admin.Notes), "", "L", false)
		y = pdf.GetY() + 2
	}

	pdf.SetTextColor(88, 56, 163)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y+4, "Admin Signature")
	y += 10

	r.placeSignature(pdf, adminSignatureDataURL, "admin-signature", y)
	y += signatureH + 5

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Line(margin, y, margin+signatureWidth, y)
	y += 6

	pdf.SetTextColor(70, 70, 70)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(margin, y, fmt.Sprintf("Admin: %s", admin.AdminName))
	pdf.Text(margin, y+5, fmt.Sprintf("Approval Date: %s", time.Now().Format("January 2, 2006")))
	pdf.SetY(y + 10)
}

func (r *Renderer) renderFooter(pdf *gofpdf.Fpdf, pageWidth, pageHeight float64) {
	pdf.SetTextColor(150, 150, 150)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(0, pageHeight-12)
	pdf.CellFormat(pageWidth, 5, "This is a digitally signed document. Generated automatically.", "", 0, "C", false, 0, "")
}

// placeSignature embeds the signature image at the current position, or a
// placeholder notice when the payload cannot be decoded.
func (r *Renderer) placeSignature(pdf *gofpdf.Fpdf, dataURL, name string, y float64) {
	payload, imageType, err := decodeDataURL(dataURL)
	if err != nil {
		pdf.SetTextColor(150, 150, 150)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(margin, y+signatureH/2, "[Signature image could not be rendered]")
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(payload))
	pdf.ImageOptions(name, margin, y, signatureWidth, signatureH, false, opts, 0, "")
}

// decodeDataURL extracts and validates an embedded image. The image is fully
// decoded up front so a corrupt payload cannot poison the PDF document state.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data url")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data url encoding")
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}

	mediaType := strings.TrimSuffix(meta, ";base64")
	switch mediaType {
	case "image/png":
		if _, err := png.Decode(bytes.NewReader(payload)); err != nil {
			return nil, "", fmt.Errorf("invalid png payload: %w", err)
		}
		return payload, "PNG", nil
	case "image/jpeg", "image/jpg":
		if _, err := jpeg.Decode(bytes.NewReader(payload)); err != nil {
			return nil, "", fmt.Errorf("invalid jpeg payload: %w", err)
		}
		return payload, "JPG", nil
	default:
		return nil, "", fmt.Errorf("unsupported image type %q", mediaType)
	}
}
