package list_clients

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
)

// ToServiceRequest разбирает query параметр includeArchived
func ToServiceRequest(includeArchivedStr string) (*models.ListClientsRequest, error) {
	req := &models.ListClientsRequest{}

	if includeArchivedStr != "" {
		includeArchived, err := strconv.ParseBool(includeArchivedStr)
		if err != nil {
			return nil, fmt.Errorf("includeArchived: invalid value %q", includeArchivedStr)
		}
		req.IncludeArchived = includeArchived
	}

	return req, nil
}
