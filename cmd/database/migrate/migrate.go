package migration

import (
	"SimpleMacro-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MacroEntry{}); err != nil {
		log.Fatalf("Error migrating macro entry database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
