package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the PostgreSQL connection and stores it in DB. The DSN
// comes from connectionDSN; a failed connection is fatal at startup.
func Connect() {
	var err error

	DB, err = gorm.Open(postgres.Open(connectionDSN()), &gorm.Config{})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		panic(err)
	}

	log.Println("✅ Database connected successfully!")
}

// connectionDSN builds the PostgreSQL DSN. DATABASE_URL wins when set;
// otherwise the DSN is assembled from DB_USER/DB_PASS/DB_NAME, over the
// Cloud SQL unix socket when INSTANCE_CONNECTION_NAME is present and
// local TCP when not.
func connectionDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		log.Println("Connecting to PostgreSQL via DATABASE_URL")
		return url
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "mesabot"
	}

	if instance := os.Getenv("INSTANCE_CONNECTION_NAME"); instance != "" {
		log.Printf("Connecting to Cloud SQL via socket: %s", instance)
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			instance, user, pass, name)
	}

	log.Println("Connecting to local PostgreSQL")
	return fmt.Sprintf("host=localhost user=%s password=%s dbname=%s port=5432 sslmode=disable",
		user, pass, name)
}
