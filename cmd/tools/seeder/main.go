package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	catIDs := seedCategories(db)
	seedProducts(db, catIDs)

	log.Println("Seeding completed successfully!")
}

func seedCategories(db *sql.DB) map[string]string {
	categories := []struct {
		Name string
		Slug string
	}{
		{"Alat Tulis", "alat-tulis"},
		{"Buku & Kertas", "buku-kertas"},
		{"Perlengkapan Kantor", "perlengkapan-kantor"},
		{"Perlengkapan Sekolah", "perlengkapan-sekolah"},
		{"Seni & Kerajinan", "seni-kerajinan"},
	}

	fmt.Println("Seeding Categories...")
	catIDs := make(map[string]string)
	for _, c := range categories {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
			RETURNING id;
		`, c.Name, c.Slug).Scan(&id)
		if err != nil {
			log.Printf("Failed to upsert category %s: %v", c.Name, err)
			continue
		}
		catIDs[c.Slug] = id
	}
	return catIDs
}

func seedProducts(db *sql.DB, catIDs map[string]string) {
	products := []struct {
		Name     string
		Slug     string
		Category string
		Price    int64
		InStock  bool
		Featured bool
	}{
		{"Pulpen Gel Hitam 0.5mm", "pulpen-gel-hitam-05", "alat-tulis", 4500, true, true},
		{"Pensil 2B Isi 12", "pensil-2b-isi-12", "alat-tulis", 28000, true, false},
		{"Stabilo Boss Original", "stabilo-boss-original", "alat-tulis", 9500, true, true},
		{"Penghapus Putih Kecil", "penghapus-putih-kecil", "alat-tulis", 2000, false, false},
		{"Buku Tulis 58 Lembar", "buku-tulis-58", "buku-kertas", 3500, true, true},
		{"Kertas HVS A4 70gsm", "kertas-hvs-a4-70", "buku-kertas", 52000, true, false},
		{"Binder A5 Transparan", "binder-a5-transparan", "buku-kertas", 27500, true, false},
		{"Stapler HD-10", "stapler-hd-10", "perlengkapan-kantor", 18000, true, false},
		{"Map Plastik Kancing", "map-plastik-kancing", "perlengkapan-kantor", 3000, true, false},
		{"Lakban Bening 2 Inch", "lakban-bening-2", "perlengkapan-kantor", 12500, false, false},
		{"Tas Pensil Kanvas", "tas-pensil-kanvas", "perlengkapan-sekolah", 35000, true, true},
		{"Penggaris Besi 30cm", "penggaris-besi-30", "perlengkapan-sekolah", 8000, true, false},
		{"Cat Air 12 Warna", "cat-air-12-warna", "seni-kerajinan", 45000, true, true},
		{"Kuas Lukis Set 6", "kuas-lukis-set-6", "seni-kerajinan", 32000, true, false},
	}

	fmt.Println("Seeding Products...")
	for _, p := range products {
		catID, ok := catIDs[p.Category]
		if !ok {
			log.Printf("Missing category ID for %s", p.Category)
			continue
		}

		sku := "OPT-" + strings.ToUpper(strings.ReplaceAll(p.Slug, "-", ""))
		_, err := db.Exec(`
			INSERT INTO products (category_id, name, slug, sku, price, in_stock, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO UPDATE SET
				category_id = EXCLUDED.category_id,
				in_stock = EXCLUDED.in_stock,
				is_featured = EXCLUDED.is_featured,
				updated_at = now();
		`, catID, p.Name, p.Slug, sku, p.Price, p.InStock, p.Featured)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.Name, err)
		}
	}
}
