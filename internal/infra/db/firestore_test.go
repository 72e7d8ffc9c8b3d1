package db

import (
	"context"
	"testing"
)

func TestFirestoreOptions(t *testing.T) {
	if opts := firestoreOptions(FirestoreConfig{ProjectID: "p"}); len(opts) != 0 {
		t.Fatalf("без файла ключа ожидали ADC без опций, получили %d", len(opts))
	}
	if opts := firestoreOptions(FirestoreConfig{ProjectID: "p", CredentialsFile: "/secrets/sa.json"}); len(opts) != 1 {
		t.Fatalf("ожидали одну опцию с файлом ключа, получили %d", len(opts))
	}
}

func TestConnectFirestoreRequiresProject(t *testing.T) {
	if _, err := ConnectFirestore(context.Background(), FirestoreConfig{}); err == nil {
		t.Fatalf("ожидали ошибку без project id")
	}
}
