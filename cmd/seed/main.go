package main

import (
	"log"
	"os"
	"time"

	"tapcard-be/internal/model"
	"tapcard-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a minimal demo dataset: one platform admin, one corporate tenant
// with an active subscription, one member, and one personal trial user.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	superAdminEmail := os.Getenv("SEED_SUPER_ADMIN_EMAIL")
	if superAdminEmail == "" {
		superAdminEmail = "platform@tapcard.dev"
	}

	now := time.Now()

	superAdmin := model.User{
		Id:                 uuid.New(),
		Email:              superAdminEmail,
		FullName:           "Platform Admin",
		SubscriptionStatus: "active",
	}
	if err := db.Where("email = ?", superAdmin.Email).FirstOrCreate(&superAdmin).Error; err != nil {
		log.Fatal("Error: Failed to seed super admin:", err)
	}
	log.Printf("Seeded super admin %s (add it to SUPER_ADMIN_EMAILS)", superAdmin.Email)

	adminHint := "admin"
	corpAdmin := model.User{
		Id:                 uuid.New(),
		Email:              "owner@acme.example",
		FullName:           "Acme Owner",
		SubscriptionStatus: "active",
		CorporateRoleHint:  &adminHint,
	}
	if err := db.Where("email = ?", corpAdmin.Email).FirstOrCreate(&corpAdmin).Error; err != nil {
		log.Fatal("Error: Failed to seed corporate admin:", err)
	}

	tenant := model.Tenant{
		Id:            uuid.New(),
		Name:          "Acme Corp",
		AccountStatus: "active",
		AdminUserId:   corpAdmin.Id,
		MaxUsers:      25,
	}
	if err := db.Where("admin_user_id = ?", corpAdmin.Id).FirstOrCreate(&tenant).Error; err != nil {
		log.Fatal("Error: Failed to seed tenant:", err)
	}

	memberHint := "member"
	member := model.User{
		Id:                 uuid.New(),
		Email:              "member@acme.example",
		FullName:           "Acme Member",
		SubscriptionStatus: "active",
		CorporateRoleHint:  &memberHint,
		TenantId:           &tenant.Id,
	}
	if err := db.Where("email = ?", member.Email).FirstOrCreate(&member).Error; err != nil {
		log.Fatal("Error: Failed to seed member:", err)
	}

	sub := model.Subscription{
		Id:               uuid.New(),
		OwnerId:          tenant.Id,
		OwnerType:        "tenant",
		Plan:             "business",
		Status:           "active",
		CurrentPeriodEnd: now.AddDate(0, 1, 0),
	}
	if err := db.Where("owner_id = ? AND owner_type = ?", tenant.Id, "tenant").FirstOrCreate(&sub).Error; err != nil {
		log.Fatal("Error: Failed to seed subscription:", err)
	}

	trialEnd := now.AddDate(0, 0, 14)
	trialUser := model.User{
		Id:                 uuid.New(),
		Email:              "trial@personal.example",
		FullName:           "Trial User",
		SubscriptionStatus: "trialing",
		TrialEndsAt:        &trialEnd,
	}
	if err := db.Where("email = ?", trialUser.Email).FirstOrCreate(&trialUser).Error; err != nil {
		log.Fatal("Error: Failed to seed trial user:", err)
	}

	log.Println("Seeding complete.")
}
