package db

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreConfig задаёт параметры подключения к проекту Firebase.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// ConnectFirestore создаёт серверного клиента Firestore. Без файла ключа сервисного
// аккаунта используются Application Default Credentials или FIRESTORE_EMULATOR_HOST.
func ConnectFirestore(ctx context.Context, cfg FirestoreConfig) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore: project id is empty")
	}
	return firestore.NewClient(ctx, cfg.ProjectID, firestoreOptions(cfg)...)
}

func firestoreOptions(cfg FirestoreConfig) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}
