// Package barcode renders printable product labels as PNG sheets.
package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"stockdesk/internal/auth"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type Format string

const (
	Code128 Format = "CODE128"
	EAN13   Format = "EAN13"
	EAN8    Format = "EAN8"
	UPC     Format = "UPC"
)

var Formats = []Format{Code128, EAN13, UPC, EAN8}

const (
	margin       = 10
	gap          = 10
	textBand     = 18
	maxValueLen  = 64
	maxPixels    = 16 << 20
	minWidth     = 1
	maxWidth     = 10
	minHeight    = 10
	maxHeight    = 400
	minQuantity  = 1
	maxQuantity  = 50
	defaultWidth = 2
)

type Options struct {
	Value        string `json:"value" form:"value"`
	Format       Format `json:"format" form:"format"`
	Width        int    `json:"width" form:"width"`   // pixels per module
	Height       int    `json:"height" form:"height"` // bar height in pixels
	DisplayValue *bool  `json:"display_value" form:"display_value"`
	Quantity     int    `json:"quantity" form:"quantity"`
}

// Normalize fills defaults the way the label form does.
func (o Options) Normalize() Options {
	o.Value = strings.TrimSpace(o.Value)
	o.Format = Format(strings.ToUpper(strings.TrimSpace(string(o.Format))))
	if o.Format == "" {
		o.Format = Code128
	}
	if o.Width == 0 {
		o.Width = defaultWidth
	}
	if o.Height == 0 {
		o.Height = 100
	}
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	if o.DisplayValue == nil {
		show := true
		o.DisplayValue = &show
	}
	return o
}

func (o Options) validate() error {
	verr := &auth.ValidationError{}
	if o.Value == "" {
		verr.Add("value", "barcode value is required")
	} else if len(o.Value) > maxValueLen {
		verr.Add("value", "barcode value is too long")
	}
	if o.Width < minWidth || o.Width > maxWidth {
		verr.Add("width", fmt.Sprintf("width must be between %d and %d", minWidth, maxWidth))
	}
	if o.Height < minHeight || o.Height > maxHeight {
		verr.Add("height", fmt.Sprintf("height must be between %d and %d", minHeight, maxHeight))
	}
	if o.Quantity < minQuantity || o.Quantity > maxQuantity {
		verr.Add("quantity", fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity))
	}
	return verr.OrNil()
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func encode(format Format, value string) (barcode.Barcode, error) {
	verr := &auth.ValidationError{}
	switch format {
	case Code128:
		bc, err := code128.Encode(value)
		if err != nil {
			verr.Add("value", "value cannot be encoded as CODE128")
			return nil, verr
		}
		return bc, nil
	case EAN13, EAN8, UPC:
		if !digits(value) {
			verr.Add("value", string(format)+" accepts digits only")
			return nil, verr
		}
		code := value
		switch {
		case format == EAN13 && (len(value) == 12 || len(value) == 13):
		case format == EAN8 && (len(value) == 7 || len(value) == 8):
		case format == UPC && (len(value) == 11 || len(value) == 12):
			// UPC-A is EAN-13 with a leading zero
			code = "0" + value
		default:
			verr.Add("value", lengthHint(format))
			return nil, verr
		}
		bc, err := ean.Encode(code)
		if err != nil {
			verr.Add("value", "check digit does not match")
			return nil, verr
		}
		return bc, nil
	}
	verr.Add("format", "unsupported barcode format")
	return nil, verr
}

func lengthHint(f Format) string {
	switch f {
	case EAN13:
		return "EAN13 needs 12 or 13 digits"
	case EAN8:
		return "EAN8 needs 7 or 8 digits"
	}
	return "UPC needs 11 or 12 digits"
}

// Render draws Quantity labels stacked vertically and encodes them as PNG.
func Render(opts Options) ([]byte, error) {
	opts = opts.Normalize()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	bc, err := encode(opts.Format, opts.Value)
	if err != nil {
		return nil, err
	}
	barsW := bc.Bounds().Dx() * opts.Width
	scaled, err := barcode.Scale(bc, barsW, opts.Height)
	if err != nil {
		return nil, err
	}

	label := opts.Height
	if *opts.DisplayValue {
		label += textBand
	}
	sheetW := barsW + 2*margin
	sheetH := 2*margin + opts.Quantity*label + (opts.Quantity-1)*gap
	if sheetW*sheetH > maxPixels {
		verr := &auth.ValidationError{}
		verr.Add("quantity", "label sheet is too large, lower width, height or quantity")
		return nil, verr
	}

	img := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	text := bc.Content()
	if opts.Format == UPC {
		text = strings.TrimPrefix(text, "0")
	}
	for i := 0; i < opts.Quantity; i++ {
		top := margin + i*(label+gap)
		rect := image.Rect(margin, top, margin+barsW, top+opts.Height)
		draw.Draw(img, rect, scaled, scaled.Bounds().Min, draw.Src)
		if *opts.DisplayValue {
			drawText(img, text, sheetW, top+opts.Height+textBand-4)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawText(img draw.Image, s string, sheetW, baseline int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s).Ceil()
	x := (sheetW - w) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.P(x, baseline)
	d.DrawString(s)
}
