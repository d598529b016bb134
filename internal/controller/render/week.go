// Package render рисует недельное расписание поля в PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 170
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	hourPadding      = 1
	defaultMinHour   = 8
	defaultMaxHour   = 23
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	daytimeBandColor = color.NRGBA{255, 235, 156, 70}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotShadowColor = color.RGBA{0, 0, 0, 20}
	legendItemColor = color.RGBA{70, 74, 78, 220}

	statusColors = map[model.BookingStatus]color.RGBA{
		model.BookingStatusPending:             {255, 214, 102, 230},
		model.BookingStatusPendingConfirmation: {120, 170, 230, 230},
		model.BookingStatusPaid:                {133, 193, 85, 230},
		model.BookingStatusCancelled:           {158, 158, 158, 200},
	}
	defaultSlotColor = color.RGBA{220, 220, 220, 200}
)

var legendItems = []struct {
	label  string
	status model.BookingStatus
}{
	{"Ждёт оплаты", model.BookingStatusPending},
	{"Чек на проверке", model.BookingStatusPendingConfirmation},
	{"Оплачено", model.BookingStatusPaid},
}

// Week данные для картинки одной недели одного поля
type Week struct {
	FieldName string
	Date      time.Time // любая дата внутри недели, в часовом поясе площадки
	Bookings  []*model.Booking
	Names     map[int64]string // ID пользователя -> имя для подписи брони
	Prices    *model.PriceConfig
	Now       time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsOnce    sync.Once
	regularFont  *opentype.Font
	boldFont     *opentype.Font
	facesMu      sync.Mutex
	cachedFaces  = make(map[faceKey]font.Face)
	errFontParse error
)

type faceKey struct {
	bold bool
	size float64
}

// setFont ставит Go-шрифт нужного размера, basicfont если он не разобрался
func setFont(dc *gg.Context, size float64, bold bool) {
	fontsOnce.Do(func() {
		regularFont, errFontParse = opentype.Parse(goregular.TTF)
		if errFontParse == nil {
			boldFont, errFontParse = opentype.Parse(gobold.TTF)
		}
	})
	if errFontParse != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	facesMu.Lock()
	defer facesMu.Unlock()

	key := faceKey{bold: bold, size: size}
	face, ok := cachedFaces[key]
	if !ok {
		src := regularFont
		if bold {
			src = boldFont
		}
		var err error
		face, err = opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFaces[key] = face
	}
	dc.SetFontFace(face)
}

// WeekImage рисует неделю (Пн-Вс), в которую попадает w.Date
func WeekImage(w Week) ([]byte, error) {
	if w.Now.IsZero() {
		w.Now = time.Now().In(w.Date.Location())
	}
	start := weekStart(w.Date)
	hours := hourSpan(w.Bookings)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	byDay := make(map[string][]*model.Booking)
	for _, b := range w.Bookings {
		if !b.IsActive() {
			continue
		}
		key := b.StartTime.In(start.Location()).Format(time.DateOnly)
		byDay[key] = append(byDay[key], b)
	}

	drawHeader(dc, w.FieldName, start)
	drawHourLabels(dc, hours, cellHeight)

	today := w.Now.In(start.Location()).Format(time.DateOnly)
	for i := 0; i < daysInWeek; i++ {
		day := start.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)
		isToday := day.Format(time.DateOnly) == today

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, isToday)
		drawDaytimeBand(dc, w.Prices, x, y, dayWidth, hours, cellHeight)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, b := range byDay[day.Format(time.DateOnly)] {
			drawBooking(dc, b, w.Names, x, y, dayWidth, hours, cellHeight)
		}
		if isToday {
			drawCurrentTime(dc, w.Now.In(start.Location()), x, dayWidth, hours, cellHeight)
		}
	}

	drawLegend(dc, dayWidth, w.Prices)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// weekStart понедельник недели, в которую попадает date
func weekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// hourSpan диапазон часов, покрывающий все брони, с небольшим запасом
func hourSpan(bookings []*model.Booking) hourRange {
	minHour, maxHour := 24, 0
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		startH := b.StartTime.Hour()
		minutes := b.StartTime.Minute() + int(b.EndTime.Sub(b.StartTime).Minutes())
		endH := startH + (minutes+59)/60
		minHour = min(minHour, startH)
		maxHour = max(maxHour, endH)
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := max(minHour-hourPadding, 0)
	end := min(maxHour+hourPadding, 24)
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, fieldName string, start time.Time) {
	end := start.AddDate(0, 0, daysInWeek-1)
	title := fmt.Sprintf("%s · %s – %s", fieldName, start.Format("02.01"), end.Format("02.01.2006"))

	setFont(dc, titleFontSize, true)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, false)
	dc.SetColor(hourLabelColor)

	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDaytimeBand подсвечивает часы дневного тарифа
func drawDaytimeBand(dc *gg.Context, prices *model.PriceConfig, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	if prices == nil || prices.Mode == model.PricingModeFlat || prices.DaytimeEndHour <= prices.DaytimeStartHour {
		return
	}
	from := max(prices.DaytimeStartHour, hours.start)
	to := min(prices.DaytimeEndHour, hours.end)
	if to <= from {
		return
	}

	dc.SetColor(daytimeBandColor)
	dc.DrawRectangle(x, y+float64(from-hours.start)*cellHeight, float64(dayWidth), float64(to-from)*cellHeight)
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	setFont(dc, dayFontSize, true)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayShort(date.Weekday()), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawBooking(dc *gg.Context, b *model.Booking, names map[int64]string, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(b.StartTime.Hour()) + float64(b.StartTime.Minute())/60.0
	endHour := startHour + b.EndTime.Sub(b.StartTime).Hours()

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	fill, ok := statusColors[b.Status]
	if !ok {
		fill = defaultSlotColor
	}

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	setFont(dc, slotTimeFontSize, true)
	dc.SetColor(slotTextColor)
	txtX := x + dayPaddingX + 8
	txtY := slotY + 18
	dc.DrawStringAnchored(b.StartTime.Format("15:04")+"–"+b.EndTime.Format("15:04"), txtX, txtY, 0, 0)

	name := names[b.UserID]
	if name != "" && slotHeight > 40 {
		runes := []rune(name)
		if len(runes) > 14 {
			name = string(runes[:13]) + "…"
		}
		setFont(dc, slotTimeFontSize-2, false)
		dc.DrawStringAnchored(name, txtX, txtY+18, 0, 0)
	}
}

func drawCurrentTime(dc *gg.Context, now time.Time, x float64, dayWidth int, hours hourRange, cellHeight float64) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	lineY := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(x, lineY, x+float64(dayWidth), lineY)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int, prices *model.PriceConfig) {
	liX := float64(leftLabelsWidth+daysInWeek*dayWidth) + 12
	liY := float64(imageHeight) - 140.0
	boxW, boxH := 20.0, 14.0

	setFont(dc, legendItemFontSize, false)
	for _, item := range legendItems {
		dc.SetColor(statusColors[item.status])
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}

	if prices != nil && prices.Mode != model.PricingModeFlat {
		dc.SetColor(daytimeBandColor)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(fmt.Sprintf("Дневной тариф %02d–%02d", prices.DaytimeStartHour, prices.DaytimeEndHour),
			liX+boxW+8, liY+boxH/2+1, 0, 0.2)
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func weekdayShort(weekday time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[weekday]
}
