package seeders

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"transport-requests/models/category"
)

func float64Ptr(v float64) *float64 { return &v }

// SeedCategories inserts the default cargo categories when they are missing.
// Existing rows are matched by name and never overwritten.
func SeedCategories(db *gorm.DB) {
	log.Printf("🔍 Checking cargo categories data integrity...")

	categories := []category.Category{
		{
			Name:                "Meubles",
			Description:         "Mobilier et ameublement",
			AverageDensity:      float64Ptr(150),
			Fragile:             true,
			RequiredTemperature: category.TemperatureAmbient,
		},
		{
			Name:                "Matériaux de construction",
			Description:         "Ciment, briques, sable, acier",
			AverageDensity:      float64Ptr(1800),
			RequiredTemperature: category.TemperatureAmbient,
		},
		{
			Name:                "Électroménager",
			Description:         "Appareils électroménagers et électroniques",
			AverageDensity:      float64Ptr(300),
			Fragile:             true,
			RequiredTemperature: category.TemperatureAmbient,
		},
		{
			Name:                "Produits alimentaires frais",
			Description:         "Denrées périssables sous chaîne du froid",
			AverageDensity:      float64Ptr(500),
			RequiredTemperature: category.TemperatureChilled,
			Restrictions:        "Chaîne du froid obligatoire",
		},
		{
			Name:                "Produits surgelés",
			Description:         "Denrées congelées",
			AverageDensity:      float64Ptr(550),
			RequiredTemperature: category.TemperatureFrozen,
			Restrictions:        "Température inférieure à -18°C",
		},
		{
			Name:                "Produits chimiques",
			Description:         "Substances dangereuses réglementées",
			AverageDensity:      float64Ptr(1000),
			Hazardous:           true,
			RequiredTemperature: category.TemperatureAmbient,
			Restrictions:        "Transport ADR, conducteur certifié",
		},
		{
			Name:                "Textile",
			Description:         "Vêtements et tissus",
			AverageDensity:      float64Ptr(250),
			RequiredTemperature: category.TemperatureAmbient,
		},
	}

	seeded := 0
	for _, c := range categories {
		var existing category.Category
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ Failed to check category %s: %v", c.Name, err)
			continue
		}

		c.ID = uuid.NewString()
		if err := db.Create(&c).Error; err != nil {
			log.Printf("❌ Failed to seed category %s: %v", c.Name, err)
			continue
		}
		seeded++
	}

	if seeded > 0 {
		log.Printf("✅ Seeded %d cargo categories", seeded)
	} else {
		log.Printf("✅ Cargo categories already up to date")
	}
}
