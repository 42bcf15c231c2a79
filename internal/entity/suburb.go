package entity

// Reference types for the static suburb dataset. Loaded once at startup and
// immutable for the process lifetime.

type SourceNote struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type PriceBand struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

type Centroid struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DataPoints struct {
	PriceBand           PriceBand    `json:"price_band"`
	PropertyTypes       []string     `json:"property_types"`
	CommuteAnchors      []string     `json:"commute_anchors"`
	LifestyleTags       []string     `json:"lifestyle_tags"`
	SchoolsNote         string       `json:"schools_note"`
	SafetyNote          string       `json:"safety_note"`
	Walkability         string       `json:"walkability"`
	InvestmentPotential string       `json:"investment_potential"`
	SourceNotes         []SourceNote `json:"source_notes"`
}

// ImagePlan drives how much illustrative imagery the frontend renders per
// suburb; the backend only stores the counts.
type ImagePlan struct {
	HeroAlt               string   `json:"hero_alt"`
	SnapshotTiles         []string `json:"snapshot_tiles"`
	LifestyleGalleryCount int      `json:"lifestyle_gallery_count"`
	SchoolImages          int      `json:"school_images"`
	ClinicImages          int      `json:"clinic_images"`
	ShoppingImages        int      `json:"shopping_images"`
	TransportGalleryCount int      `json:"transport_gallery_count"`
}

type Suburb struct {
	Slug           string     `json:"slug"`
	Name           string     `json:"name"`
	Summary        string     `json:"summary"`
	Centroid       Centroid   `json:"centroid"`
	DataPoints     DataPoints `json:"data_points"`
	ImagePlan      ImagePlan  `json:"image_plan"`
	RelatedSuburbs []string   `json:"related_suburbs"`
}
