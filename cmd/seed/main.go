// seed genera un script SQL para poblar categorías y artículos a partir de un
// catálogo CSV exportado del sistema anterior (codificado en ISO-8859-1, separado
// por punto y coma: categoria;nombre;marca;precio;stock).
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/003_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type row struct {
	category string
	name     string
	brand    string
	price    string
	stock    int
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// los exports del sistema anterior vienen en ISO-8859-1
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	catSet := make(map[string]struct{})
	var rows []row
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "categoria") {
			continue // cabecera
		}
		if len(rec) < 5 {
			continue
		}
		cat := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if cat == "" || name == "" {
			continue
		}
		price := strings.TrimSpace(strings.ReplaceAll(rec[3], ",", "."))
		if _, err := strconv.ParseFloat(price, 64); err != nil || price == "" {
			price = "0"
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || stock < 0 {
			stock = 0
		}
		catSet[cat] = struct{}{}
		rows = append(rows, row{
			category: cat,
			name:     name,
			brand:    strings.TrimSpace(rec[2]),
			price:    price,
			stock:    stock,
		})
	}

	// Ordenar categorías por nombre para salida estable
	var cats []string
	for c := range catSet {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "003_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo inicial (categorías y artículos)\n")
	out.WriteString("-- Generado desde el export CSV del sistema anterior\n\n")

	out.WriteString("-- 1. Categorías\n")
	for _, c := range cats {
		fmt.Fprintf(out, "INSERT INTO categories (id, name) VALUES (gen_random_uuid(), '%s')\n", escapeSQL(c))
		out.WriteString("ON CONFLICT (name) DO NOTHING;\n")
	}
	out.WriteString("\n-- 2. Artículos (con subquery a la categoría)\n")
	for _, it := range rows {
		fmt.Fprintf(out, "INSERT INTO items (id, category_id, name, brand, price, stock)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), id, '%s', '%s', %s, %d FROM categories WHERE name = '%s'\n",
			escapeSQL(it.name), escapeSQL(it.brand), it.price, it.stock, escapeSQL(it.category))
		out.WriteString("ON CONFLICT DO NOTHING;\n")
	}

	fmt.Printf("Generado %s: %d categorías, %d artículos\n", outPath, len(cats), len(rows))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
