package syncer

import "vehicle-rental-admin/internal/client"

func validation(field, message string) error {
	return &client.ValidationError{Field: field, Message: message}
}
