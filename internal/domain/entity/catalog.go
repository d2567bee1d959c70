package entity

// Choice par código/etiqueta, en el orden en que se muestran en la interfaz.
type Choice struct {
	Code  string `json:"codigo"`
	Label string `json:"label"`
}

// Tipos de huevo.
const (
	EggWholeLiquid = "HELU"
	EggYolkLiquid  = "YELU"
	EggWhiteLiquid = "CLLU"
	EggPowderMix   = "MEPU"
)

// EggTypes catálogo de tipos de huevo.
var EggTypes = []Choice{
	{EggWholeLiquid, "Huevo Líquido Entero"},
	{EggYolkLiquid, "Yema Líquida"},
	{EggWhiteLiquid, "Clara Líquida"},
	{EggPowderMix, "Mezcla en Polvo"},
}

// Presentations catálogo de presentaciones.
var Presentations = []Choice{
	{"OV20_1000", "OV20 - 1000g"},
	{"OV15_200", "OV15 - 200g"},
	{"SAC_20", "Saco 20kg"},
	{"SAC_5", "Saco 5kg"},
}

// Ciudades de operación.
const (
	CityBogota       = "BOGOTA"
	CityCali         = "CALI"
	CityMedellin     = "MEDELLIN"
	CityBarranquilla = "BARRANQUILLA"
)

// Cities catálogo de ciudades.
var Cities = []Choice{
	{CityBogota, "Bogotá"},
	{CityCali, "Cali"},
	{CityMedellin, "Medellín"},
	{CityBarranquilla, "Barranquilla"},
}

// Label devuelve la etiqueta del código, o el código si no existe en el catálogo.
func Label(choices []Choice, code string) string {
	for _, c := range choices {
		if c.Code == code {
			return c.Label
		}
	}
	return code
}

// Valid indica si code pertenece al catálogo.
func Valid(choices []Choice, code string) bool {
	for _, c := range choices {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Codes devuelve los códigos del catálogo en orden.
func Codes(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Code
	}
	return out
}
