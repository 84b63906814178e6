package mirror

import (
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MirrorService keeps a best-effort copy of accounts and entries in a cloud
// document bucket, keyed by the external identity. Callers never block a
// user flow on mirror failures.
type (
	MirrorService interface {
		SaveUser(ctx context.Context, externalID string, user *entities.User) error
		SaveEntry(ctx context.Context, externalID string, entry *entities.MacroEntry) error
		DeleteEntry(ctx context.Context, externalID string, entryID uint) error
		DeleteUser(ctx context.Context, externalID string) error
	}

	mirrorService struct {
		client *s3.Client
		bucket string
	}
)

func NewMirrorService() MirrorService {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	accessKey := utils.GetConfig("AWS_ACCESS_KEY")
	secretKey := utils.GetConfig("AWS_SECRET_KEY")

	if bucket == "" || region == "" {
		// Mirror is optional; without a bucket every call is a no-op.
		return &mirrorService{}
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		log.Printf("mirror disabled, aws config failed: %v", err)
		return &mirrorService{}
	}

	return &mirrorService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

func (m *mirrorService) put(ctx context.Context, objectKey string, doc any) error {
	if m.client == nil {
		return nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	contentType := "application/json"
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &m.bucket,
		Key:         &objectKey,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	return err
}

func (m *mirrorService) SaveUser(ctx context.Context, externalID string, user *entities.User) error {
	return m.put(ctx, fmt.Sprintf("users/%s.json", externalID), map[string]any{
		"email":        user.Email,
		"username":     user.Username,
		"name":         user.Name,
		"age":          user.Age,
		"weight":       user.Weight,
		"height":       user.Height,
		"gender":       user.Gender,
		"calorie_goal": user.CalorieGoal,
		"carb_goal":    user.CarbGoal,
		"protein_goal": user.ProteinGoal,
		"fat_goal":     user.FatGoal,
		"is_dark_mode": user.IsDarkMode,
		"is_guest":     user.IsGuest,
	})
}

func (m *mirrorService) SaveEntry(ctx context.Context, externalID string, entry *entities.MacroEntry) error {
	return m.put(ctx, fmt.Sprintf("users/%s/entries/%d.json", externalID, entry.ID), map[string]any{
		"name":      entry.Name,
		"date":      entry.Date,
		"calories":  entry.Calories,
		"carbs":     entry.Carbs,
		"protein":   entry.Protein,
		"fat":       entry.Fat,
		"logged_at": entry.LoggedAt,
	})
}

func (m *mirrorService) DeleteEntry(ctx context.Context, externalID string, entryID uint) error {
	if m.client == nil {
		return nil
	}
	objectKey := fmt.Sprintf("users/%s/entries/%d.json", externalID, entryID)
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &m.bucket,
		Key:    &objectKey,
	})
	return err
}

func (m *mirrorService) DeleteUser(ctx context.Context, externalID string) error {
	if m.client == nil {
		return nil
	}
	objectKey := fmt.Sprintf("users/%s.json", externalID)
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &m.bucket,
		Key:    &objectKey,
	})
	return err
}
