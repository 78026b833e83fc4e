package v1

import (
	"github.com/climaticrisks/climatic-risks/internal/models"
)

// DTOToAddressModel parses the enum fields of an address payload into their
// canonical values.
func DTOToAddressModel(dto AddressRequest) (*models.Address, error) {
	soil, err := models.ParseSoilType(dto.SoilType)
	if err != nil {
		return nil, err
	}
	elevation, err := models.ParseStreetElevation(dto.StreetElevation)
	if err != nil {
		return nil, err
	}
	construction, err := models.ParseConstructionType(dto.ConstructionType)
	if err != nil {
		return nil, err
	}
	return &models.Address{
		Logradouro:       dto.Logradouro,
		Bairro:           dto.Bairro,
		CEP:              dto.CEP,
		SoilType:         soil,
		StreetElevation:  elevation,
		ConstructionType: construction,
		NearWaterway:     dto.NearWaterway,
	}, nil
}

func ModelToAddressResponse(model *models.Address) *AddressResponse {
	return &AddressResponse{
		ID:               model.ID,
		Logradouro:       model.Logradouro,
		Bairro:           model.Bairro,
		CEP:              model.CEP,
		SoilType:         string(model.SoilType),
		StreetElevation:  string(model.StreetElevation),
		ConstructionType: string(model.ConstructionType),
		NeighborhoodRisk: string(model.NeighborhoodRisk),
		NearWaterway:     model.NearWaterway,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ModelsToAddressResponses(models []*models.Address) []*AddressResponse {
	responses := make([]*AddressResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAddressResponse(model)
	}
	return responses
}

// DTOToUserModel builds the user half of a registration payload. The address
// half goes through DTOToAddressModel.
func DTOToUserModel(dto RegisterRequest) *models.User {
	return &models.User{
		Name:  dto.Name,
		Email: dto.Email,
		Phone: dto.Phone,
	}
}

func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:             model.ID,
		Name:           model.Name,
		Email:          model.Email,
		Phone:          model.Phone,
		AddressID:      model.AddressID,
		IsCivilDefense: model.IsCivilDefense,
		CreatedAt:      model.CreatedAt,
	}
}

func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		AddressID:   model.AddressID,
		Description: model.Description,
		OccurredAt:  model.OccurredAt,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToRiskResponse(model *models.RiskRecord) *RiskResponse {
	return &RiskResponse{
		ID:             model.ID,
		AddressID:      model.AddressID,
		Level:          string(model.Level),
		TotalIncidents: model.TotalIncidents,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ModelsToRiskResponses(models []*models.RiskRecord) []*RiskResponse {
	responses := make([]*RiskResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToRiskResponse(model)
	}
	return responses
}

func ModelToVerificationResponse(model *models.Verification) *VerificationResponse {
	return &VerificationResponse{
		ID:          model.ID,
		UserID:      model.UserID,
		FloodID:     model.FloodID,
		LandslideID: model.LandslideID,
		Confirmed:   model.Confirmed,
		CreatedAt:   model.CreatedAt,
	}
}

func ModelsToVerificationResponses(models []*models.Verification) []*VerificationResponse {
	responses := make([]*VerificationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToVerificationResponse(model)
	}
	return responses
}

func ModelToVerificationStatsResponse(model *models.VerificationStats) *VerificationStatsResponse {
	return &VerificationStatsResponse{
		Total:            model.Total,
		Confirmed:        model.Confirmed,
		Denied:           model.Denied,
		ConfirmedPercent: model.ConfirmedPercent,
	}
}

func ModelToAlertResponse(model *models.Alert) *AlertResponse {
	return &AlertResponse{
		ID:                    model.ID,
		Title:                 model.Title,
		Description:           model.Description,
		Level:                 string(model.Level),
		AffectedNeighborhoods: model.AffectedNeighborhoods,
		StartsAt:              model.StartsAt,
		Active:                model.Active,
		CreatedAt:             model.CreatedAt,
	}
}

func ModelsToAlertResponses(models []*models.Alert) []*AlertResponse {
	responses := make([]*AlertResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAlertResponse(model)
	}
	return responses
}

func ModelToNotificationResponse(model *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        model.ID,
		Title:     model.Title,
		Message:   model.Message,
		Priority:  string(model.Priority),
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

func ModelsToNotificationResponses(models []*models.Notification) []*NotificationResponse {
	responses := make([]*NotificationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToNotificationResponse(model)
	}
	return responses
}

func ModelToReportResponse(model *models.Report) *ReportResponse {
	return &ReportResponse{
		ID:              model.ID,
		Period:          model.Period,
		Region:          model.Region,
		TotalFloods:     model.TotalFloods,
		TotalLandslides: model.TotalLandslides,
		TotalIncidents:  model.TotalIncidents,
		CreatedAt:       model.CreatedAt,
	}
}

func ModelsToReportResponses(models []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToReportResponse(model)
	}
	return responses
}
