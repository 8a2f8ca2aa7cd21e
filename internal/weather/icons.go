package weather

// DefaultIconURL is shown for condition codes missing from the icon table.
const DefaultIconURL = "https://openweathermap.org/img/wn/unknown@2x.png"

const iconBase = "https://openweathermap.org/img/wn/"

// icons maps OpenWeatherMap condition codes to display icons. Day and night
// variants are listed separately; lookups are exact.
var icons = map[string]string{
	"01d": iconBase + "01d@2x.png", // clear sky
	"01n": iconBase + "01n@2x.png",
	"02d": iconBase + "02d@2x.png", // few clouds
	"02n": iconBase + "02n@2x.png",
	"03d": iconBase + "03d@2x.png", // scattered clouds
	"03n": iconBase + "03n@2x.png",
	"04d": iconBase + "04d@2x.png", // broken / overcast clouds
	"04n": iconBase + "04n@2x.png",
	"09d": iconBase + "09d@2x.png", // shower rain
	"09n": iconBase + "09n@2x.png",
	"10d": iconBase + "10d@2x.png", // rain
	"10n": iconBase + "10n@2x.png",
	"11d": iconBase + "11d@2x.png", // thunderstorm
	"11n": iconBase + "11n@2x.png",
	"13d": iconBase + "13d@2x.png", // snow
	"13n": iconBase + "13n@2x.png",
	"50d": iconBase + "50d@2x.png", // mist, smoke, haze, dust, fog, sand, ash, squall, tornado
	"50n": iconBase + "50n@2x.png",
}

// IconURL returns the display icon for a condition code. Every input yields
// a URL; unknown codes get DefaultIconURL.
func IconURL(code string) string {
	if u, ok := icons[code]; ok {
		return u
	}
	return DefaultIconURL
}
