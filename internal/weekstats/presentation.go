package weekstats

import (
	"math"
	"strconv"
)

const header = "Google Fit"

type RenderOptions struct {
	ChartSize      int
	InnerThickness float64
	FontSize       int
	StepCountLabel bool
	UseIcons       bool
	DisplayWeight  bool
	DisplayHeader  bool
}

// Layout holds the sizes the display client draws the rings with.
type Layout struct {
	ChartSize        float64 `json:"chartSize"`
	TotalSize        float64 `json:"totalSize"`
	InnerSizePercent float64 `json:"innerSizePercent"`
	FontSize         int     `json:"fontSize"`
	UseIcons         bool    `json:"useIcons"`
}

type DayRecord struct {
	DayLabel  string    `json:"dayLabel"`
	DateLabel string    `json:"dateLabel"`
	StepTotal float64   `json:"stepTotal"`
	StepLabel string    `json:"stepLabel,omitempty"`
	Weight    *float64  `json:"weight"`
	Segments  []Segment `json:"segments"`
}

type Week struct {
	Header         string      `json:"header,omitempty"`
	Labels         []string    `json:"labels"`
	Days           []DayRecord `json:"days"`
	ShowStepLabels bool        `json:"showStepLabels"`
	ShowWeightRow  bool        `json:"showWeightRow"`
	Layout         Layout      `json:"layout"`
}

type Assembler struct {
	encoder *BandEncoder
	labels  [DaysInWeek]string
	options RenderOptions
}

func NewAssembler(encoder *BandEncoder, labels [DaysInWeek]string, options RenderOptions) *Assembler {
	return &Assembler{
		encoder: encoder,
		labels:  labels,
		options: options,
	}
}

// Assemble merges the daily aggregates, their bands and the aligned day labels
// into one render-ready week. The label row is cut to the number of days.
func (a *Assembler) Assemble(days []DailyAggregate) Week {
	if len(days) > DaysInWeek {
		days = days[:DaysInWeek]
	}

	week := Week{
		Labels:         append([]string(nil), a.labels[:len(days)]...),
		Days:           make([]DayRecord, 0, len(days)),
		ShowStepLabels: a.options.StepCountLabel,
		Layout:         a.layout(),
	}
	if a.options.DisplayHeader {
		week.Header = header
	}

	for i, day := range days {
		record := DayRecord{
			DayLabel:  a.labels[i],
			DateLabel: day.DateLabel,
			StepTotal: day.StepTotal,
			Segments:  a.encoder.Encode(day.StepTotal),
		}
		if day.WeightAverage != nil {
			w := *day.WeightAverage
			record.Weight = &w
			if w > 0 && a.options.DisplayWeight {
				week.ShowWeightRow = true
			}
		}
		if a.options.StepCountLabel && day.StepTotal > 0 {
			record.StepLabel = FormatSteps(day.StepTotal)
		}
		week.Days = append(week.Days, record)
	}

	return week
}

func (a *Assembler) layout() Layout {
	thickness := math.Min(math.Max(a.options.InnerThickness, 0), 1)
	chartSize := float64(a.options.ChartSize)
	return Layout{
		ChartSize:        chartSize,
		TotalSize:        chartSize * 1.1,
		InnerSizePercent: thickness * 100,
		FontSize:         a.options.FontSize,
		UseIcons:         a.options.UseIcons,
	}
}

// FormatSteps renders a step total in thousands for narrow cells:
// 7500 -> "7.5k", 15000 -> "15k".
func FormatSteps(stepTotal float64) string {
	thousands := stepTotal / 1000
	precision := 0
	if thousands < 10 {
		precision = 1
	}
	return strconv.FormatFloat(thousands, 'f', precision, 64) + "k"
}
