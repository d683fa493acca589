package dto

import (
	"time"

	"github.com/pribylovaa/fittrack-dashboard/internal/clients/authapi"
	"github.com/pribylovaa/fittrack-dashboard/internal/models"
	"github.com/pribylovaa/fittrack-dashboard/internal/storage"
)

// DefaultRole — роль новой учётной записи, если клиент её не передал.
const DefaultRole = "member"

func ProfileFromSnapshot(s models.Snapshot) Profile {
	p := s.Profile

	out := Profile{
		Name:                 p.Name,
		Email:                p.Email,
		Phone:                p.Phone,
		Age:                  p.Age,
		Gender:               p.Gender,
		Height:               p.Height,
		Weight:               p.Weight,
		Goal:                 p.Goal,
		Membership:           p.Membership,
		BeforeImage:          imageFromModel(p.BeforeImage),
		AfterImage:           imageFromModel(p.AfterImage),
		LastAfterUpdate:      p.LastAfterUpdate,
		IsComplete:           s.Complete,
		CompletionPercentage: s.Completion,
		AfterImageExpiresAt:  s.AfterImageExpiresAt,
	}

	if s.BMI != nil {
		v := s.BMI.Value
		out.BMI = &v
		out.BMICategory = string(s.BMI.Category)
	}

	return out
}

func imageFromModel(ref *models.ImageRef) *Image {
	if ref == nil {
		return nil
	}

	return &Image{URI: ref.URI, State: string(ref.State), Key: ref.Key}
}

func PhotoPresignFromStorage(info *storage.UploadInfo) PhotoPresignResponse {
	if info == nil {
		return PhotoPresignResponse{}
	}

	return PhotoPresignResponse{
		UploadURL:      info.UploadURL,
		PhotoKey:       info.PhotoKey,
		ExpiresSeconds: uint32(info.Expires / time.Second),
		RequiredHeader: info.RequiredHeader,
	}
}

func (m LoginRequest) ToClient() authapi.LoginRequest {
	return authapi.LoginRequest{Email: m.Email, Password: m.Password}
}

func (m RegisterRequest) ToClient() authapi.RegisterRequest {
	role := m.Role
	if role == "" {
		role = DefaultRole
	}

	return authapi.RegisterRequest{
		Email:     m.Email,
		Password:  m.Password,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Role:      role,
	}
}

func SessionFromClient(s *authapi.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}

	return SessionResponse{User: s.User, ExpiresAt: s.ExpiresAt}
}
