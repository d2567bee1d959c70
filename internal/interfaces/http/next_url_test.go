package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveNext_DestinosExternosVanAlDefault(t *testing.T) {
	cases := []string{
		"http://evil.example.com",
		"https://evil.example.com/login",
		"HTTPS://EVIL.EXAMPLE.COM",
		"//evil.example.com",
		"  //evil.example.com",
		`\\evil.example.com`,
		`/\evil.example.com`,
		"javascript:alert(1)",
		"mailto:a@b.co",
		"/pedidos/\r\nLocation: http://x",
	}
	for _, next := range cases {
		assert.Equal(t, "/", ResolveNext(next, DefaultLoginNext), next)
		assert.Equal(t, "/editartablas/", ResolveNext(next, DefaultStatusNext), next)
	}
}

func TestResolveNext_RutasLocales(t *testing.T) {
	assert.Equal(t, "/pedidos/resumen/?semana=2025-03-17", ResolveNext("/pedidos/resumen/?semana=2025-03-17", DefaultLoginNext))
	assert.Equal(t, "/", ResolveNext("", DefaultLoginNext))
	assert.Equal(t, "/editartablas/", ResolveNext("", DefaultStatusNext))
}

func TestResolveNext_NombresDeRuta(t *testing.T) {
	assert.Equal(t, "/pedidos/historial/", ResolveNext("historial", DefaultStatusNext))
	assert.Equal(t, "/editartablas/", ResolveNext("no_existe", DefaultStatusNext))
	assert.Equal(t, "/", ResolveNext("no_existe", "tampoco"))
}

func TestSanitizeNext(t *testing.T) {
	assert.Equal(t, "", SanitizeNext("https://evil.example.com"))
	assert.Equal(t, "", SanitizeNext("//evil.example.com"))
	assert.Equal(t, "/pedidos/tablas", SanitizeNext("/pedidos/tablas"))
	assert.Equal(t, "historial", SanitizeNext("historial"))
}
