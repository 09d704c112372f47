package productgen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"prodinsight/domain/product"

	"github.com/xuri/excelize/v2"
)

// Dataset is a synthetic product export with every cell already formatted
// the way the marketplace export writes it (currency prefix, grouped digits,
// percent suffix).
//
// Columns follow product.RequiredColumns plus review_title when enabled.
type Dataset struct {
	Headers []string
	Rows    [][]string

	// Numeric series for validation/tests, nil entries were written blank or malformed
	DiscountedPrice []*float64
	ActualPrice     []*float64
	Discount        []*float64
	Rating          []*float64
	RatingCount     []*int64
}

type Config struct {
	Rows int
	Seed int64

	// Fraction of numeric cells left empty or replaced by junk text
	MissingRate float64

	// Rating penalty applied to products discounted at 30% or more
	DiscountPenalty float64

	IncludeReviewTitle bool
}

func DefaultConfig() Config {
	return Config{
		Rows:               600,
		Seed:               42,
		MissingRate:        0.02,
		DiscountPenalty:    0.15,
		IncludeReviewTitle: true,
	}
}

var categories = []string{
	"Computers&Accessories|Accessories&Peripherals|Cables&Accessories|Cables|USBCables",
	"Electronics|HomeTheater,TV&Video|Accessories|Cables|HDMICables",
	"Electronics|Mobiles&Accessories|Smartphones&BasicMobiles|Smartphones",
	"Electronics|Headphones,Earbuds&Accessories|Headphones|In-Ear",
	"Computers&Accessories|Accessories&Peripherals|Keyboards,Mice&InputDevices|Mice",
	"Home&Kitchen|Kitchen&HomeAppliances|SmallKitchenAppliances|Kettles&HotWaterDispensers|ElectricKettles",
	"Home&Kitchen|Heating,Cooling&AirQuality|RoomHeaters|FanHeaters",
	"Electronics|WearableTechnology|SmartWatches",
	"OfficeProducts|OfficePaperProducts|Paper|Stationery|Pens,Pencils&WritingSupplies|Pens&Refills|GelInkRollerballPens",
	"Computers&Accessories|ExternalDevices&DataStorage|PenDrives",
	"Toys&Games|Arts&Crafts|Drawing&PaintingSupplies|ColouringPens&Markers",
	"MusicalInstruments|Microphones|Condenser",
}

var brands = []string{"boAt", "Ambrane", "Portronics", "Wayona", "Redmi", "Samsung", "Pigeon", "Havells", "Noise", "SanDisk", "Classmate", "AmazonBasics"}

var nouns = []string{"Cable", "Charger", "Earphones", "Watch", "Kettle", "Heater", "Mouse", "Keyboard", "Pen", "Drive", "Marker", "Microphone", "Adapter", "Speaker"}

var adjectives = []string{"Fast", "Braided", "Wireless", "Smart", "Durable", "Compact", "Premium", "Ultra", "Portable", "Classic"}

var reviewTitles = []string{
	"Good product", "Value for money", "Nice product", "Good", "Worth the price",
	"Not bad", "Average", "Excellent", "Poor quality", "Works as expected", "Stopped working",
}

func Generate(cfg Config) (*Dataset, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
		return nil, fmt.Errorf("missing rate must be in [0, 1)")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	headers := append([]string(nil), product.RequiredColumns...)
	if cfg.IncludeReviewTitle {
		headers = append(headers, product.ColumnReviewTitle)
	}

	ds := &Dataset{
		Headers:         headers,
		Rows:            make([][]string, 0, cfg.Rows),
		DiscountedPrice: make([]*float64, 0, cfg.Rows),
		ActualPrice:     make([]*float64, 0, cfg.Rows),
		Discount:        make([]*float64, 0, cfg.Rows),
		Rating:          make([]*float64, 0, cfg.Rows),
		RatingCount:     make([]*int64, 0, cfg.Rows),
	}

	for i := 0; i < cfg.Rows; i++ {
		category := categories[rng.Intn(len(categories))]
		name := fmt.Sprintf("%s %s %s %d",
			brands[rng.Intn(len(brands))],
			adjectives[rng.Intn(len(adjectives))],
			nouns[rng.Intn(len(nouns))],
			100+rng.Intn(20))

		// Log-normal list prices between roughly 100 and 60000
		actual := math.Round(math.Exp(5+rng.Float64()*6)) + 99
		discount := math.Round(rng.Float64() * 90)
		discounted := math.Round(actual * (1 - discount/100))

		rating := 4.1 + rng.NormFloat64()*0.35
		if discount >= 30 {
			rating -= cfg.DiscountPenalty
		}
		rating = math.Max(1, math.Min(5, math.Round(rating*10)/10))

		ratingCount := int64(math.Round(math.Exp(2 + rng.Float64()*9)))

		row := make([]string, 0, len(headers))
		row = append(row, fmt.Sprintf("B%09d", 7000000+i*13))
		row = append(row, name)
		row = append(row, category)

		dp := maybeMissing(cfg, rng, formatRupees(discounted), &discounted)
		ap := maybeMissing(cfg, rng, formatRupees(actual), &actual)
		dc := maybeMissing(cfg, rng, strconv.Itoa(int(discount))+"%", &discount)
		rt := maybeMissing(cfg, rng, strconv.FormatFloat(rating, 'f', 1, 64), &rating)

		count := ratingCount
		rcCell, rcMissing := groupDigits(count), rng.Float64() < cfg.MissingRate
		var rc *int64
		if rcMissing {
			rcCell = ""
		} else {
			rc = &count
		}

		row = append(row, dp.cell, ap.cell, dc.cell, rt.cell, rcCell)
		if cfg.IncludeReviewTitle {
			n := 1 + rng.Intn(4)
			titles := make([]string, n)
			for t := range titles {
				titles[t] = reviewTitles[rng.Intn(len(reviewTitles))]
			}
			row = append(row, strings.Join(titles, ","))
		}

		ds.Rows = append(ds.Rows, row)
		ds.DiscountedPrice = append(ds.DiscountedPrice, dp.value)
		ds.ActualPrice = append(ds.ActualPrice, ap.value)
		ds.Discount = append(ds.Discount, dc.value)
		ds.Rating = append(ds.Rating, rt.value)
		ds.RatingCount = append(ds.RatingCount, rc)
	}

	return ds, nil
}

type generated struct {
	cell  string
	value *float64
}

// maybeMissing blanks or corrupts a formatted cell with probability MissingRate
func maybeMissing(cfg Config, rng *rand.Rand, cell string, v *float64) generated {
	if rng.Float64() >= cfg.MissingRate {
		val := *v
		return generated{cell: cell, value: &val}
	}
	if rng.Intn(2) == 0 {
		return generated{}
	}
	return generated{cell: "n/a"}
}

func formatRupees(v float64) string {
	return "₹" + groupDigits(int64(v))
}

// groupDigits formats n with Indian-style comma grouping (12,34,567)
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	if err := f.SetSheetRow(sheet, "A1", &ds.Headers); err != nil {
		return err
	}
	for r, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
