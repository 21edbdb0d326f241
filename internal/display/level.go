package display

import (
	"fmt"
)

// Stock is the availability class of an inventory item
type Stock string

const (
	StockOut       Stock = "out_of_stock"
	StockLow       Stock = "low_stock"
	StockAvailable Stock = "available"
)

// StockLevel classifies a quantity against its reorder point. Out of stock
// wins over low stock, so a non-positive reorder point never hides an empty shelf.
func StockLevel(quantity, reorderPoint int) Stock {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= reorderPoint:
		return StockLow
	default:
		return StockAvailable
	}
}

var stockBadges = map[Stock]Badge{
	StockOut:       {"Ausverkauft", VariantDestructive, ColorRed},
	StockLow:       {"Niedriger Bestand", VariantDestructive, ColorOrange},
	StockAvailable: {"Verfügbar", VariantDefault, ColorGreen},
}

// StockBadge renders the stock level of an item
func StockBadge(quantity, reorderPoint int) Badge {
	return stockBadges[StockLevel(quantity, reorderPoint)]
}

// Bucket is a quality score tier
type Bucket string

const (
	BucketExcellent  Bucket = "excellent"
	BucketGood       Bucket = "good"
	BucketAcceptable Bucket = "acceptable"
	BucketPoor       Bucket = "poor"
)

// Lower bounds of the score tiers, inclusive
const (
	ExcellentMinScore  = 90
	GoodMinScore       = 75
	AcceptableMinScore = 60
)

// ScoreBucket maps a 0-100 score to its tier
func ScoreBucket(score float64) Bucket {
	switch {
	case score >= ExcellentMinScore:
		return BucketExcellent
	case score >= GoodMinScore:
		return BucketGood
	case score >= AcceptableMinScore:
		return BucketAcceptable
	default:
		return BucketPoor
	}
}

var scoreStyles = map[Bucket]Badge{
	BucketExcellent:  {Variant: VariantDefault, Color: ColorGreen},
	BucketGood:       {Variant: VariantSecondary, Color: ColorBlue},
	BucketAcceptable: {Variant: VariantOutline, Color: ColorYellow},
	BucketPoor:       {Variant: VariantDestructive, Color: ColorRed},
}

// ScoreBadge renders a score as "85%" styled by its tier
func ScoreBadge(score float64) Badge {
	b := scoreStyles[ScoreBucket(score)]
	b.Label = fmt.Sprintf("%g%%", score)
	return b
}
