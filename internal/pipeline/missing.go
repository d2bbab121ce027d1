package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/mahwous/pricewatch/internal/catalog"
	"github.com/mahwous/pricewatch/internal/extract"
	"github.com/mahwous/pricewatch/internal/similarity"
	"github.com/mahwous/pricewatch/internal/textnorm"
)

// MissingProduct is a competitor product with no counterpart in the
// merchant catalog, an assortment-gap lead.
type MissingProduct struct {
	Name          string                `json:"name"`
	ProductID     string                `json:"product_id,omitempty"`
	Price         float64               `json:"price,omitempty"`
	Competitor    string                `json:"competitor"`
	Brand         string                `json:"brand,omitempty"`
	SizeML        float64               `json:"size_ml,omitempty"`
	Concentration extract.Concentration `json:"concentration,omitempty"`
	Gender        extract.Gender        `json:"gender,omitempty"`
	DetectedAt    time.Time             `json:"detected_at"`
}

// FindMissing returns competitor products whose best token-sort
// similarity against the merchant catalog stays below cutoff. Products
// seen in an earlier competitor are reported once.
func FindMissing(ours *catalog.Catalog, comps []*catalog.Catalog, cutoff float64) []MissingProduct {
	ownNorms := make([]string, 0, len(ours.Items))
	for _, it := range ours.Items {
		if it.Name == "" {
			continue
		}
		if extract.All(it.Name).Classification == extract.ClassRejected {
			continue
		}
		ownNorms = append(ownNorms, textnorm.Normalize(it.Name))
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var missing []MissingProduct

	for _, comp := range comps {
		for _, it := range comp.Items {
			if it.Name == "" {
				continue
			}
			attrs := extract.All(it.Name)
			if attrs.Classification == extract.ClassRejected {
				continue
			}
			norm := textnorm.Normalize(it.Name)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true

			best := 0.0
			for _, own := range ownNorms {
				if r := similarity.TokenSortRatio(norm, own); r > best {
					best = r
					if best >= cutoff {
						break
					}
				}
			}
			if best >= cutoff {
				continue
			}

			missing = append(missing, MissingProduct{
				Name:          it.Name,
				ProductID:     it.ID,
				Price:         it.Price,
				Competitor:    comp.Name,
				Brand:         attrs.Brand,
				SizeML:        attrs.SizeML,
				Concentration: attrs.Concentration,
				Gender:        attrs.Gender,
				DetectedAt:    now,
			})
		}
	}

	zap.L().Info("missing product scan finished",
		zap.Int("competitor_catalogs", len(comps)),
		zap.Int("missing", len(missing)),
	)
	return missing
}
