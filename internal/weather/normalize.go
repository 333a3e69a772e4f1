package weather

import (
	"math"
	"time"
)

// UnknownCondition replaces missing weather-condition fields.
const UnknownCondition = "Unknown"

// HourlyLimit caps normalized hourly entries to the next 24 hours.
const HourlyLimit = 24

// Normalize converts an upstream One Call payload into the stable
// summary shape. Celsius is the rounded raw metric temperature,
// Fahrenheit is derived as round(C*9/5+32). Missing condition fields
// default to "Unknown" and precipitation probability defaults to 0.
func Normalize(raw *OneCallResponse) *Summary {
	summary := &Summary{
		Hourly: []Hour{},
		Location: Location{
			Name: UnknownCondition,
		},
	}
	if raw == nil {
		return summary
	}

	summary.Location.Lat = raw.Lat
	summary.Location.Lon = raw.Lon
	if raw.Timezone != "" {
		summary.Location.Name = raw.Timezone
	}

	if raw.Current != nil {
		condition, description := conditionOf(raw.Current)
		summary.Current = Current{
			TempC:       roundTemp(raw.Current.Temp),
			TempF:       toFahrenheit(raw.Current.Temp),
			Condition:   condition,
			Description: description,
			Humidity:    raw.Current.Humidity,
			WindSpeed:   raw.Current.WindSpeed,
		}
	} else {
		summary.Current = Current{
			TempF:       toFahrenheit(0),
			Condition:   UnknownCondition,
			Description: UnknownCondition,
		}
	}

	hourly := raw.Hourly
	if len(hourly) > HourlyLimit {
		hourly = hourly[:HourlyLimit]
	}
	for i := range hourly {
		hour := &hourly[i]
		condition, description := conditionOf(hour)
		summary.Hourly = append(summary.Hourly, Hour{
			Time:        time.Unix(hour.Dt, 0).UTC().Format(time.RFC3339),
			TempC:       roundTemp(hour.Temp),
			TempF:       toFahrenheit(hour.Temp),
			PrecipProb:  hour.Pop,
			Condition:   condition,
			Description: description,
		})
	}

	return summary
}

func conditionOf(point *DataPoint) (condition, description string) {
	condition, description = UnknownCondition, UnknownCondition
	if len(point.Weather) > 0 {
		if point.Weather[0].Main != "" {
			condition = point.Weather[0].Main
		}
		if point.Weather[0].Description != "" {
			description = point.Weather[0].Description
		}
	}
	return condition, description
}

func roundTemp(celsius float64) int {
	return int(math.Round(celsius))
}

func toFahrenheit(celsius float64) int {
	return int(math.Round(celsius*9/5 + 32))
}
