// Package weather fetches forecasts from the OpenWeather One Call
// upstream and normalizes them into the stable shape served to
// clients.
//
// The upstream call requests only current and hourly data in metric
// units under a bounded timeout. Upstream status codes and timeouts
// are surfaced as distinct error values so the HTTP layer can map
// them onto the local error taxonomy.
package weather
