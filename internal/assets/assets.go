package assets

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Site palette, carried over from the landing page stylesheets.
var (
	navy     = color.NRGBA{R: 52, G: 73, B: 94, A: 255}
	midnight = color.NRGBA{R: 44, G: 62, B: 80, A: 255}
	panel    = color.NRGBA{R: 41, G: 58, B: 74, A: 255}
	blue     = color.NRGBA{R: 41, G: 128, B: 185, A: 255}
	skyBlue  = color.NRGBA{R: 52, G: 152, B: 219, A: 255}
	green    = color.NRGBA{R: 46, G: 204, B: 113, A: 255}
	red      = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
	yellow   = color.NRGBA{R: 241, G: 196, B: 15, A: 255}
	purple   = color.NRGBA{R: 155, G: 89, B: 182, A: 255}
	orange   = color.NRGBA{R: 230, G: 126, B: 34, A: 255}
	cloud    = color.NRGBA{R: 236, G: 240, B: 241, A: 255}
	grey     = color.NRGBA{R: 189, G: 195, B: 199, A: 255}
)

type featureSpec struct {
	Filename string
	Title    string
	Color    color.NRGBA
	Icon     string
}

var featureSpecs = []featureSpec{
	{"feature-framework.png", "Legal Prejudice Framework", skyBlue, "framework"},
	{"feature-risk.png", "Risk & Probability Analysis", green, "risk"},
	{"feature-guide.png", "Practical Implementation", purple, "guide"},
	{"feature-calculator.png", "Interactive Risk Calculator", navy, "calculator"},
	{"feature-api.png", "API & Integration", orange, "api"},
	{"feature-case.png", "Case Studies", red, "case"},
}

// Generator renders the marketing images for the project site: the hero
// dashboard banner, the logo set and the feature cards.
type Generator interface {
	GenerateAll(dir string) error
	Hero(path string) error
	Logos(dir string) error
	FeatureCards(dir string) error
}

type generator struct {
	log *logger.Logger

	titleFace font.Face
	labelFace font.Face
	smallFace font.Face
}

func NewGenerator(log *logger.Logger) (Generator, error) {
	genLog := log.With("service", "AssetGenerator")

	g := &generator{
		log:       genLog,
		titleFace: basicfont.Face7x13,
		labelFace: basicfont.Face7x13,
		smallFace: basicfont.Face7x13,
	}

	fontPath := os.Getenv("ASSET_FONT")
	if strings.TrimSpace(fontPath) != "" {
		genLog.Info("Loading asset font", "font", fontPath)
		title, err := loadFontFace(fontPath, 24)
		if err != nil {
			return nil, fmt.Errorf("could not load asset font: %w", err)
		}
		label, err := loadFontFace(fontPath, 14)
		if err != nil {
			return nil, fmt.Errorf("could not load asset font: %w", err)
		}
		small, err := loadFontFace(fontPath, 10)
		if err != nil {
			return nil, fmt.Errorf("could not load asset font: %w", err)
		}
		g.titleFace = title
		g.labelFace = label
		g.smallFace = small
	} else {
		genLog.Warn("ASSET_FONT not set, using built-in bitmap font")
	}

	return g, nil
}

func (g *generator) GenerateAll(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "features"), 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	if err := g.Hero(filepath.Join(dir, "hero-image.png")); err != nil {
		return err
	}
	if err := g.Logos(dir); err != nil {
		return err
	}
	if err := g.FeatureCards(filepath.Join(dir, "features")); err != nil {
		return err
	}
	g.log.Info("Generated all site assets", "dir", dir)
	return nil
}

// Hero renders the 800x500 dashboard mock used as the landing page banner.
func (g *generator) Hero(path string) error {
	const width, height = 800, 500
	dc := gg.NewContext(width, height)

	grad := gg.NewLinearGradient(0, 0, 0, height)
	grad.AddColorStop(0, navy)
	grad.AddColorStop(1, midnight)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	// Header bar with logo block and nav items
	dc.SetColor(midnight)
	dc.DrawRectangle(0, 0, width, 60)
	dc.Fill()
	dc.SetColor(blue)
	dc.DrawRoundedRectangle(20, 15, 100, 30, 4)
	dc.Fill()
	dc.SetFontFace(g.labelFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("LPA", 70, 30, 0.5, 0.35)

	navX := 160.0
	for _, item := range []string{"Dashboard", "Cases", "Analysis", "Reports", "Settings"} {
		dc.DrawString(item, navX, 34)
		w, _ := dc.MeasureString(item)
		navX += w + 28
	}

	// Sidebar menu
	const sidebar = 200.0
	dc.SetColor(panel)
	dc.DrawRectangle(0, 60, sidebar, height-60)
	dc.Fill()
	dc.SetColor(cloud)
	menuY := 100.0
	for _, item := range []string{"Home", "Risk Assessment", "Prejudice Factors", "Documentation", "Reports", "Settings", "Help"} {
		dc.DrawString(item, 20, menuY)
		menuY += 40
	}

	dc.SetFontFace(g.titleFace)
	dc.DrawString("Legal Prejudice Risk Assessment Dashboard", sidebar+20, 92)

	// Summary cards
	g.heroCard(dc, sidebar+20, 120, blue, "Overall Risk Score", "18", "HIGH RISK")
	g.heroCard(dc, sidebar+240, 120, green, "Factors Analyzed", "12", "4 Critical Factors")
	g.heroCard(dc, sidebar+460, 120, red, "Recommended Action", "File Motion", "Immediate Response")

	// Risk matrix panel
	matrixX, matrixY := sidebar+20, 260.0
	dc.SetColor(panel)
	dc.DrawRoundedRectangle(matrixX, matrixY, 300, 200, 6)
	dc.Fill()
	dc.SetFontFace(g.labelFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("Risk Matrix", matrixX+150, matrixY+18, 0.5, 0.35)

	const cell = 30.0
	gridX, gridY := matrixX+50, matrixY+50
	dc.SetColor(grey)
	dc.SetLineWidth(1)
	for i := 0; i <= 5; i++ {
		dc.DrawLine(gridX, gridY+float64(i)*cell, gridX+5*cell, gridY+float64(i)*cell)
		dc.DrawLine(gridX+float64(i)*cell, gridY, gridX+float64(i)*cell, gridY+5*cell)
	}
	dc.Stroke()
	dc.SetFontFace(g.smallFace)
	dc.SetColor(color.White)
	dc.DrawString("Likelihood", gridX+50, matrixY+42)
	dc.DrawString("Impact", matrixX+6, gridY+80)

	// Rated factor points, likelihood x impact on the 5x5 grid
	points := []struct {
		L, I int
		Hot  bool
	}{
		{4, 5, true}, {3, 4, true}, {5, 3, true}, {2, 4, false},
		{4, 2, false}, {3, 3, false}, {1, 2, false}, {2, 1, false},
	}
	for _, p := range points {
		x := gridX + (float64(p.L)-0.5)*cell
		y := gridY + (5-float64(p.I)+0.5)*cell
		if p.Hot {
			dc.SetColor(red)
		} else {
			dc.SetColor(yellow)
		}
		dc.DrawCircle(x, y, 5)
		dc.Fill()
	}

	// Critical factor list panel
	listX, listY := sidebar+340, 260.0
	dc.SetColor(panel)
	dc.DrawRoundedRectangle(listX, listY, 230, 200, 6)
	dc.Fill()
	dc.SetFontFace(g.labelFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("Critical Factors", listX+115, listY+18, 0.5, 0.35)
	dc.SetFontFace(g.smallFace)
	itemY := listY + 50
	for _, factor := range []string{
		"Prior representation of party",
		"Financial interest in outcome",
		"Public statements on case",
		"Personal relationship with party",
	} {
		dc.SetColor(red)
		dc.DrawCircle(listX+20, itemY, 4)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawString(factor, listX+32, itemY+4)
		itemY += 30
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save hero image: %w", err)
	}
	g.log.Info("Generated hero image", "path", path)
	return nil
}

func (g *generator) heroCard(dc *gg.Context, x, y float64, bg color.NRGBA, title, value, caption string) {
	const w, h = 200.0, 120.0
	dc.SetColor(bg)
	dc.DrawRoundedRectangle(x, y, w, h, 6)
	dc.Fill()
	dc.SetColor(color.White)
	dc.SetFontFace(g.smallFace)
	dc.DrawStringAnchored(title, x+w/2, y+24, 0.5, 0.35)
	dc.SetFontFace(g.titleFace)
	dc.DrawStringAnchored(value, x+w/2, y+60, 0.5, 0.35)
	dc.SetFontFace(g.smallFace)
	dc.DrawStringAnchored(caption, x+w/2, y+96, 0.5, 0.35)
}

// Logos renders logo.png, its white variant and a downscaled favicon.png.
func (g *generator) Logos(dir string) error {
	if err := g.logo(filepath.Join(dir, "logo.png"), midnight); err != nil {
		return err
	}
	if err := g.logo(filepath.Join(dir, "logo-white.png"), color.NRGBA{R: 255, G: 255, B: 255, A: 255}); err != nil {
		return err
	}
	return g.favicon(filepath.Join(dir, "favicon.png"))
}

func (g *generator) logo(path string, ink color.NRGBA) error {
	const width, height = 200, 50
	dc := gg.NewContext(width, height)
	drawScales(dc, 10, 10, 30, 30, ink)

	dc.SetColor(ink)
	dc.SetFontFace(g.titleFace)
	dc.DrawString("LPA", 50, 26)
	dc.SetFontFace(g.smallFace)
	dc.DrawString("Legal Prejudice Analysis", 50, 44)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save logo: %w", err)
	}
	g.log.Info("Generated logo", "path", path)
	return nil
}

func (g *generator) favicon(path string) error {
	// Render the mark at 128px and downscale for a cleaner 32px result.
	const big, small = 128, 32
	dc := gg.NewContext(big, big)
	drawScales(dc, 16, 16, 96, 96, skyBlue)

	dst := image.NewRGBA(image.Rect(0, 0, small, small))
	draw.CatmullRom.Scale(dst, dst.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	out := gg.NewContextForRGBA(dst)
	if err := out.SavePNG(path); err != nil {
		return fmt.Errorf("save favicon: %w", err)
	}
	g.log.Info("Generated favicon", "path", path)
	return nil
}

// drawScales draws the scales-of-justice mark inside the given box.
func drawScales(dc *gg.Context, x, y, w, h float64, ink color.NRGBA) {
	dc.SetColor(ink)

	// Base
	dc.DrawRectangle(x+w/2-w/15, y+h-h/3, 2*w/15, h/3)
	dc.Fill()
	// Arm
	dc.DrawRectangle(x, y+h/2-h/30, w, 2*h/30)
	dc.Fill()
	// Dishes
	dc.SetLineWidth(2)
	dc.DrawEllipse(x+w/6, y+h/2, w/6, h/6)
	dc.Stroke()
	dc.DrawEllipse(x+w-w/6, y+h/2, w/6, h/6)
	dc.Stroke()
}

// FeatureCards renders the six 400x200 cards linked from the landing page.
func (g *generator) FeatureCards(dir string) error {
	for _, spec := range featureSpecs {
		path := filepath.Join(dir, spec.Filename)
		if err := g.featureCard(path, spec); err != nil {
			return err
		}
		g.log.Info("Generated feature card", "path", path)
	}
	return nil
}

func (g *generator) featureCard(path string, spec featureSpec) error {
	const width, height = 400, 200
	dc := gg.NewContext(width, height)
	dc.SetColor(spec.Color)
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	dc.SetFontFace(g.titleFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(spec.Title, width/2, 30, 0.5, 0.35)

	cx, cy := float64(width)/2, float64(height)/2+15
	switch spec.Icon {
	case "framework":
		dc.SetColor(color.White)
		dc.DrawRectangle(cx-30, cy-40, 60, 80)
		dc.Fill()
		dc.SetColor(spec.Color)
		dc.SetLineWidth(2)
		for i := 0; i < 5; i++ {
			y := cy - 25 + float64(i)*12
			dc.DrawLine(cx-20, y, cx+20, y)
		}
		dc.Stroke()
	case "risk":
		dc.SetColor(color.White)
		dc.SetLineWidth(2)
		dc.DrawRectangle(cx-40, cy-40, 80, 80)
		dc.Stroke()
		dc.SetLineWidth(1)
		for i := 1; i < 4; i++ {
			off := float64(i) * 20
			dc.DrawLine(cx-40, cy-40+off, cx+40, cy-40+off)
			dc.DrawLine(cx-40+off, cy-40, cx-40+off, cy+40)
		}
		dc.Stroke()
		dc.SetColor(red)
		dc.DrawCircle(cx+25, cy-25, 5)
		dc.Fill()
	case "guide":
		dc.SetColor(color.White)
		dc.DrawRectangle(cx-30, cy-40, 60, 80)
		dc.Fill()
		dc.SetColor(grey)
		dc.DrawRectangle(cx-15, cy-48, 30, 8)
		dc.Fill()
		dc.SetLineWidth(2)
		for i := 0; i < 5; i++ {
			y := cy - 28 + float64(i)*14
			dc.SetColor(spec.Color)
			dc.DrawRectangle(cx-22, y, 10, 10)
			dc.Stroke()
			if i%2 == 0 {
				dc.DrawLine(cx-20, y+5, cx-17, y+8)
				dc.DrawLine(cx-17, y+8, cx-14, y+2)
				dc.Stroke()
			}
			dc.DrawLine(cx-8, y+5, cx+22, y+5)
			dc.Stroke()
		}
	case "calculator":
		dc.SetColor(color.NRGBA{R: 50, G: 50, B: 50, A: 255})
		dc.DrawRoundedRectangle(cx-30, cy-40, 60, 80, 4)
		dc.Fill()
		dc.SetColor(color.NRGBA{R: 200, G: 255, B: 200, A: 255})
		dc.DrawRectangle(cx-25, cy-35, 50, 14)
		dc.Fill()
		dc.SetColor(grey)
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				dc.DrawRectangle(cx-24+float64(col)*13, cy-14+float64(row)*13, 9, 9)
				dc.Fill()
			}
		}
	case "api":
		dc.SetColor(color.White)
		dc.SetLineWidth(3)
		dc.DrawLine(cx-40, cy-20, cx-25, cy-20)
		dc.DrawLine(cx-40, cy-20, cx-40, cy+20)
		dc.DrawLine(cx-40, cy+20, cx-25, cy+20)
		dc.DrawLine(cx+25, cy-20, cx+40, cy-20)
		dc.DrawLine(cx+40, cy-20, cx+40, cy+20)
		dc.DrawLine(cx+25, cy+20, cx+40, cy+20)
		dc.Stroke()
		dc.SetFontFace(g.labelFace)
		dc.DrawStringAnchored("API", cx, cy, 0.5, 0.35)
	case "case":
		dc.SetColor(yellow)
		dc.DrawRectangle(cx-40, cy-20, 80, 50)
		dc.Fill()
		dc.MoveTo(cx-40, cy-20)
		dc.LineTo(cx-20, cy-32)
		dc.LineTo(cx+20, cy-32)
		dc.LineTo(cx+40, cy-20)
		dc.ClosePath()
		dc.Fill()
		dc.SetColor(spec.Color)
		dc.SetLineWidth(2)
		for i := 0; i < 3; i++ {
			y := cy - 8 + float64(i)*12
			dc.DrawLine(cx-30, y, cx+30, y)
		}
		dc.Stroke()
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save feature card: %w", err)
	}
	return nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
