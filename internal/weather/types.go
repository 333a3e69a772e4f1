package weather

// OneCallResponse is the subset of the OpenWeather One Call 3.0
// payload this service consumes.
type OneCallResponse struct {
	Lat      float64     `json:"lat"`
	Lon      float64     `json:"lon"`
	Timezone string      `json:"timezone"`
	Current  *DataPoint  `json:"current"`
	Hourly   []DataPoint `json:"hourly"`
}

// DataPoint is a single current or hourly observation.
type DataPoint struct {
	Dt        int64       `json:"dt"`
	Temp      float64     `json:"temp"`
	Humidity  int         `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
	Pop       float64     `json:"pop"`
	Weather   []Condition `json:"weather"`
}

// Condition is an OpenWeather weather-condition block.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Summary is the stable forecast shape served to clients.
type Summary struct {
	Current  Current  `json:"current"`
	Hourly   []Hour   `json:"hourly"`
	Location Location `json:"location"`
}

// Current describes current conditions.
type Current struct {
	TempC       int     `json:"tempC"`
	TempF       int     `json:"tempF"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// Hour describes one hourly forecast entry.
type Hour struct {
	Time        string  `json:"time"`
	TempC       int     `json:"tempC"`
	TempF       int     `json:"tempF"`
	PrecipProb  float64 `json:"precipProb"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
}

// Location identifies the forecast location. Name is the upstream
// timezone label, or "Unknown" when absent.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}
