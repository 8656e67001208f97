package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/iMarket-api/internal/application/dto"
)

// Columnas del catálogo exportado de la planilla, separadas por ';':
// nombre;marca;modelo;categoria;precio;moneda;costo;proveedor;stock;sucursal
const catalogColumns = 10

// readCatalog parsea el CSV. latin1 decodifica exportaciones ISO-8859-1 de planillas viejas.
// La primera fila es el encabezado.
func readCatalog(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = catalogColumns
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]dto.CreateProductRequest, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRow(row []string) (dto.CreateProductRequest, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	price, err := parseAmount(row[4])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio: %w", err)
	}
	cost, err := parseAmount(row[6])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("costo: %w", err)
	}
	stock, err := strconv.Atoi(row[8])
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("stock: %w", err)
	}
	return dto.CreateProductRequest{
		Name:     row[0],
		Brand:    row[1],
		Model:    row[2],
		Category: row[3],
		Price:    price,
		Currency: strings.ToUpper(row[5]),
		Cost:     cost,
		Provider: row[7],
		Stock:    stock,
		Store:    row[9],
	}, nil
}

// parseAmount acepta "1500.50" y el formato local "1.500,50".
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
