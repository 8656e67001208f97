package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const header = "nombre;marca;modelo;categoria;precio;moneda;costo;proveedor;stock;sucursal\n"

func TestReadCatalog_FormatosDeMonto(t *testing.T) {
	in := header +
		"iPhone 13;Apple;128GB;Celulares Nuevos;650;usd;540.5;Mayorista;2;local1\n" +
		"Funda silicona;;;Accesorios;1.500,50;ARS;600;;10;local2\n"

	got, err := readCatalog(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "USD", got[0].Currency)
	assert.True(t, got[0].Cost.Equal(decimal.RequireFromString("540.5")))
	assert.Equal(t, 2, got[0].Stock)

	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("1500.50")))
	assert.Equal(t, "local2", got[1].Store)
}

func TestReadCatalog_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(header + "Cargador rápido;;;Cargadores;9000;ARS;4000;;3;local1\n")
	require.NoError(t, err)

	got, err := readCatalog(bytes.NewReader([]byte(raw)), true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cargador rápido", got[0].Name)
}

func TestReadCatalog_ErrorIndicaFila(t *testing.T) {
	in := header + "Funda;;;Accesorios;abc;ARS;0;;1;local1\n"
	_, err := readCatalog(strings.NewReader(in), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestReadCatalog_ColumnasFaltantes(t *testing.T) {
	_, err := readCatalog(strings.NewReader(header+"Funda;Accesorios\n"), false)
	assert.Error(t, err)
}
