// Package mockdata holds the fixed figures the dashboard views display.
package mockdata

type ModelStatus string

const (
	StatusComplete ModelStatus = "complete"
	StatusTraining ModelStatus = "training"
	StatusError    ModelStatus = "error"
)

type Model struct {
	ID          string
	Name        string
	Description string
	Accuracy    float64
	Status      ModelStatus
	Type        string
	LastUpdated string
}

type Series struct {
	Name       string
	Training   float64
	Validation float64
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

type Metric struct {
	Title  string
	Value  string
	Change int
	Trend  Trend
}

type Run struct {
	ID        string
	Model     string
	StartTime string
	Duration  string
	Status    string
	Accuracy  float64
	Loss      float64
}

type Usage struct {
	Name  string
	Usage float64
}

type Feature struct {
	Name  string
	Value float64
	Color string
}

type PipelineStep struct {
	Title        string
	Description  string
	Color        string
	Quality      float64
	Completeness float64
}

type Layer struct {
	Name  string
	Nodes int
	Color string
}

var Models = []Model{
	{ID: "model-1", Name: "ResNet-50 Classifier", Description: "Image classification model with fine-tuning on custom dataset", Accuracy: 93.7, Status: StatusComplete, Type: "classification", LastUpdated: "2 hours ago"},
	{ID: "model-2", Name: "BERT-NLP Sentiment", Description: "NLP model for sentiment analysis on customer reviews", Accuracy: 89.2, Status: StatusTraining, Type: "nlp", LastUpdated: "5 mins ago"},
	{ID: "model-3", Name: "TimeSeries-LSTM", Description: "Time series forecasting for energy consumption prediction", Accuracy: 78.5, Status: StatusComplete, Type: "regression", LastUpdated: "1 day ago"},
	{ID: "model-4", Name: "PetFinder-XGBoost", Description: "Animal adoption prediction model using gradient boosting", Accuracy: 65.2, Status: StatusError, Type: "classification", LastUpdated: "3 days ago"},
}

var AccuracyHistory = []Series{
	{"Day 1", 45, 35},
	{"Day 2", 52, 48},
	{"Day 3", 61, 53},
	{"Day 4", 67, 58},
	{"Day 5", 72, 63},
	{"Day 6", 78, 67},
	{"Day 7", 81, 73},
	{"Day 8", 87, 76},
	{"Day 9", 91, 80},
	{"Day 10", 94, 85},
}

var Metrics = []Metric{
	{Title: "Active Models", Value: "14", Change: 23, Trend: TrendUp},
	{Title: "Total Training Hours", Value: "682", Change: 12, Trend: TrendUp},
	{Title: "GPU Utilization", Value: "78%", Change: 5, Trend: TrendDown},
	{Title: "Success Rate", Value: "92%", Change: 3, Trend: TrendUp},
}

var RecentRuns = []Run{
	{ID: "run-1", Model: "ResNet-50 Classifier", StartTime: "2023-04-05T08:30:00", Duration: "1h 23m", Status: "completed", Accuracy: 93.7, Loss: 0.21},
	{ID: "run-2", Model: "BERT-NLP Sentiment", StartTime: "2023-04-05T10:15:00", Duration: "ongoing", Status: "running", Accuracy: 89.2, Loss: 0.34},
	{ID: "run-3", Model: "TimeSeries-LSTM", StartTime: "2023-04-04T22:10:00", Duration: "5h 47m", Status: "completed", Accuracy: 78.5, Loss: 0.47},
	{ID: "run-4", Model: "PetFinder-XGBoost", StartTime: "2023-04-02T15:20:00", Duration: "2h 15m", Status: "failed", Accuracy: 0, Loss: 2.34},
}

var GPUMemory = []Usage{
	{"00:00", 8.2}, {"02:00", 7.8}, {"04:00", 6.5}, {"06:00", 7.1},
	{"08:00", 10.3}, {"10:00", 14.8}, {"12:00", 15.2}, {"14:00", 16.7},
	{"16:00", 19.3}, {"18:00", 18.2}, {"20:00", 16.5}, {"22:00", 12.4},
	{"now", 14.2},
}

var Features = []Feature{
	{Name: "Feature 1", Value: 0.82, Color: "#3A86FF"},
	{Name: "Feature 2", Value: 0.67, Color: "#8B5CF6"},
	{Name: "Feature 3", Value: 0.54, Color: "#EC4899"},
	{Name: "Feature 4", Value: 0.39, Color: "#10B981"},
	{Name: "Feature 5", Value: 0.25, Color: "#F59E0B"},
}

var PipelineSteps = []PipelineStep{
	{Title: "Data Ingestion", Description: "Data is collected from various sources and loaded into the system for processing.", Color: "#3A86FF", Quality: 0.78, Completeness: 0.92},
	{Title: "Data Preprocessing", Description: "Raw data undergoes cleaning, normalization, and transformation to prepare for analysis.", Color: "#8B5CF6", Quality: 0.78, Completeness: 0.92},
	{Title: "Feature Engineering", Description: "Relevant features are extracted and engineered to improve model performance.", Color: "#EC4899", Quality: 0.78, Completeness: 0.92},
	{Title: "Model Training", Description: "The prepared dataset is used to train machine learning models.", Color: "#10B981", Quality: 0.78, Completeness: 0.92},
}

var NetworkLayers = []Layer{
	{Name: "Input", Nodes: 6, Color: "#3A86FF"},
	{Name: "Hidden 1", Nodes: 8, Color: "#8B5CF6"},
	{Name: "Hidden 2", Nodes: 8, Color: "#D946EF"},
	{Name: "Output", Nodes: 4, Color: "#00B4D8"},
}

// Palette is the set of accent colors offered on the Settings view.
var Palette = []string{"#3A86FF", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B"}

// FeatureShares returns each feature's fraction of the summed importance.
func FeatureShares(fs []Feature) []float64 {
	total := 0.0
	for _, f := range fs {
		total += f.Value
	}
	out := make([]float64, len(fs))
	if total == 0 {
		return out
	}
	for i, f := range fs {
		out[i] = f.Value / total
	}
	return out
}

// Connections counts the links of a fully connected stack of layers.
func Connections(layers []Layer) int {
	n := 0
	for i := 1; i < len(layers); i++ {
		n += layers[i-1].Nodes * layers[i].Nodes
	}
	return n
}

func CountByStatus(models []Model) map[ModelStatus]int {
	out := map[ModelStatus]int{}
	for _, m := range models {
		out[m.Status]++
	}
	return out
}
