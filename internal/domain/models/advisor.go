package models

// Image is the metadata of an uploaded photo. The mocked advisors never look at pixels.
type Image struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type PestIdentification struct {
	PestName       string `json:"pestName"` // "N/A" when nothing was found
	Recommendation string `json:"recommendation"`
}

type PlantRecommendation struct {
	PlantName     string `json:"plantName"`
	Justification string `json:"justification"`
}

type PlantHealthAnalysis struct {
	Status          string   `json:"plant_health_status"`
	GrowthStage     string   `json:"growth_stage"`
	StressFactors   []string `json:"stress_factors"`
	Recommendations []string `json:"recommendations"`
	GrowthTrends    string   `json:"growth_trends,omitempty"`
}

type SoilRating string

const (
	SoilPoor      SoilRating = "Poor"
	SoilFair      SoilRating = "Fair"
	SoilGood      SoilRating = "Good"
	SoilExcellent SoilRating = "Excellent"
)

type SoilHealthScore struct {
	Score          int        `json:"score"`
	Rating         SoilRating `json:"rating"`
	Recommendation string     `json:"recommendation"`
}
