package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/arunahq/backend-estimate/internal/pricing"
)

func main() {
	// Load .env file
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

	var tenantID string
	err = db.QueryRow(`
		INSERT INTO tenants (name, slug) VALUES ('Aruna Demo Studio', 'default')
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id;
	`).Scan(&tenantID)
	if err != nil {
		log.Fatalf("Failed to retrieve or create default tenant: %v", err)
	}
	log.Printf("Using Tenant ID: %s", tenantID)

	seedCatalog(db, tenantID)

	log.Println("Seeding completed successfully!")
}

func seedCatalog(db *sql.DB, tenantID string) {
	log.Println("Seeding renovation catalog...")

	payload, err := json.Marshal(demoCatalog())
	if err != nil {
		log.Fatalf("Failed to encode catalog: %v", err)
	}

	var version int
	err = db.QueryRow(`
		INSERT INTO catalogs (tenant_id, version, payload)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2
		FROM catalogs WHERE tenant_id = $1
		RETURNING version;
	`, tenantID, payload).Scan(&version)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("Published catalog version %d", version)
}

func prices(basic, standard, luxe float64) map[pricing.Tier]float64 {
	return map[pricing.Tier]float64{
		pricing.TierBasic:    basic,
		pricing.TierStandard: standard,
		pricing.TierLuxe:     luxe,
	}
}

func demoCatalog() pricing.Catalog {
	return pricing.Catalog{Categories: []pricing.Category{
		{
			ID:   "living-area",
			Name: "Living Area",
			Items: []pricing.Item{
				{ID: "false-ceiling", Name: "False ceiling", PricingKind: pricing.PricingPerArea, PriceByTier: prices(85, 120, 180), Enabled: true},
				{ID: "wall-paint", Name: "Wall painting", PricingKind: pricing.PricingPerArea, PriceByTier: prices(18, 28, 45), Enabled: true},
				{ID: "tv-unit", Name: "TV unit", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(24000, 36000, 62000), Enabled: true},
				{ID: "sofa-cladding", Name: "Sofa wall cladding", PricingKind: pricing.PricingFlat, PriceByTier: prices(18000, 26000, 41000), Enabled: true},
			},
		},
		{
			ID:   "kitchen",
			Name: "Kitchen",
			Items: []pricing.Item{
				{ID: "base-cabinets", Name: "Base cabinets", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(9500, 13500, 21000), Enabled: true},
				{ID: "counter-top", Name: "Counter top", PricingKind: pricing.PricingPerArea, PriceByTier: prices(140, 220, 380), Enabled: true},
				{ID: "chimney", Name: "Chimney and hob", PricingKind: pricing.PricingFlat, PriceByTier: prices(28000, 42000, 75000), Enabled: true},
			},
		},
		{
			ID:   "bedroom",
			Name: "Bedroom",
			Items: []pricing.Item{
				{ID: "wardrobe", Name: "Wardrobe", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(32000, 48000, 84000), Enabled: true},
				{ID: "bed-back-panel", Name: "Bed back panelling", PricingKind: pricing.PricingFlat, PriceByTier: prices(14000, 21000, 36000), Enabled: true},
				{ID: "study-table", Name: "Study table", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(11000, 16500, 27000), Enabled: true},
			},
		},
		{
			ID:   "bathroom",
			Name: "Bathroom",
			Items: []pricing.Item{
				{ID: "vanity", Name: "Vanity unit", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(12000, 18000, 31000), Enabled: true},
				{ID: "shower-partition", Name: "Shower partition", PricingKind: pricing.PricingFlat, PriceByTier: prices(16000, 24000, 39000), Enabled: true},
			},
		},
		{
			ID:          "cabin",
			Name:        "Cabin",
			ProjectType: pricing.ProjectCommercial,
			Items: []pricing.Item{
				{ID: "workstation", Name: "Workstation desk", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(15000, 22000, 36000), Enabled: true},
				{ID: "glass-partition", Name: "Glass partition", PricingKind: pricing.PricingPerArea, PriceByTier: prices(210, 320, 520), Enabled: true},
			},
		},
		{
			ID:   "electrical",
			Name: "Electrical Work",
			Items: []pricing.Item{
				{ID: "rewiring", Name: "Rewiring", PricingKind: pricing.PricingPerArea, PriceByTier: prices(22, 34, 55), Enabled: true},
				{ID: "light-fixtures", Name: "Light fixtures", PricingKind: pricing.PricingPerUnit, PriceByTier: prices(900, 1600, 3200), Enabled: true},
			},
		},
	}}
}
