package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with catalog data",
	Long:  `Seed the database with cigar components and store settings for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"payments", "orders", "components", "settings"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		components := []struct {
			Kind  string
			Name  string
			Desc  string
			Price float64
		}{
			{"size", "Corona", "5.5 x 42, the classic benchmark size", 3.00},
			{"size", "Robusto", "5 x 50, full flavor in a shorter smoke", 5.00},
			{"size", "Churchill", "7 x 47, a long and elegant smoke", 7.50},
			{"binder", "Connecticut", "mild, smooth Connecticut shade binder", 1.50},
			{"binder", "Habano", "spicier Habano-seed binder", 2.25},
			{"binder", "Broadleaf", "dark, sweet Connecticut broadleaf", 2.00},
			{"flavor", "Natural", "no infusion, pure tobacco", 0.00},
			{"flavor", "Bourbon", "barrel-room bourbon infusion", 2.50},
			{"flavor", "Vanilla", "light vanilla cure", 1.75},
			{"band_style", "Classic", "traditional printed paper band", 0.00},
			{"band_style", "Foil Embossed", "gold foil embossed band", 1.25},
			{"band_style", "Custom Monogram", "personalized monogram band", 3.00},
			{"box_type", "Cardboard", "plain cardboard bundle box", 2.00},
			{"box_type", "Cedar", "spanish cedar presentation box", 8.00},
			{"box_type", "Lacquered Humidor", "lacquered desktop humidor", 25.00},
		}

		for _, c := range components {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM components WHERE kind = $1 AND name = $2", c.Kind, c.Name).Scan(&exists); err == nil {
				continue
			}

			_, err := db.Exec(
				"INSERT INTO components (kind, name, description, price_contribution, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, true, now(), now())",
				c.Kind, c.Name, c.Desc, c.Price)
			if err != nil {
				log.Fatalf("failed to insert component %s/%s: %v", c.Kind, c.Name, err)
			}
			fmt.Printf("Seeded component: %s / %s (%.2f)\n", c.Kind, c.Name, c.Price)
		}

		settings := map[string]string{
			"pricing.base_price":    "30.00",
			"pricing.tax_rate":      "0.08",
			"pricing.shipping_cost": "9.99",
		}

		for key, value := range settings {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM settings WHERE key = $1", key).Scan(&exists); err == nil {
				continue
			}

			if _, err := db.Exec("INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())", key, value); err != nil {
				log.Fatalf("failed to insert setting %s: %v", key, err)
			}
			fmt.Printf("Seeded setting: %s = %s\n", key, value)
		}

		fmt.Println("Catalog seeded successfully")
	},
}
