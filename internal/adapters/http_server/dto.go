package httpserver

import (
	"math"
	"strings"
	"time"

	"barzinhos/internal/domain"
)

type establishmentDTO struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Neighborhood string    `json:"neighborhood"`
	Phone        string    `json:"phone"`
	WhatsApp     string    `json:"whatsapp"`
	Type         string    `json:"type"`
	IsOpen       bool      `json:"is_open"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ImageURL     string    `json:"image_url"`
	MenuURL      string    `json:"menu_url"`
	Website      string    `json:"website"`
	Instagram    string    `json:"instagram"`
	PlanType     string    `json:"plan_type"`
	IsApproved   bool      `json:"is_approved"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type establishmentDetailDTO struct {
	establishmentDTO
	Images  []imageDTO  `json:"images"`
	Reviews []reviewDTO `json:"reviews"`
}

type reviewDTO struct {
	ID              int64     `json:"id"`
	EstablishmentID int64     `json:"establishment_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

type imageDTO struct {
	ID              int64     `json:"id"`
	EstablishmentID int64     `json:"establishment_id"`
	ImageURL        string    `json:"image_url"`
	IsPrimary       bool      `json:"is_primary"`
	CreatedAt       time.Time `json:"created_at"`
}

type userDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type statsDTO struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Open     int `json:"open"`
}

func toEstablishment(e domain.Establishment, rs domain.RatingSummary) establishmentDTO {
	return establishmentDTO{
		ID: e.ID, UserID: e.UserID, Name: e.Name, Description: e.Description,
		Address: e.Address, Neighborhood: e.Neighborhood, Phone: e.Phone, WhatsApp: e.WhatsApp,
		Type: e.Type, IsOpen: e.IsOpen, Latitude: e.Latitude, Longitude: e.Longitude,
		ImageURL: e.ImageURL, MenuURL: e.MenuURL, Website: e.Website, Instagram: e.Instagram,
		PlanType: string(e.PlanType), IsApproved: e.IsApproved,
		Rating: rs.Average, ReviewCount: rs.Count,
		CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func toList(vs []domain.EstablishmentView) []establishmentDTO {
	out := make([]establishmentDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toEstablishment(v.Establishment, v.Rating))
	}
	return out
}

func toDetail(v domain.EstablishmentView) establishmentDetailDTO {
	d := establishmentDetailDTO{
		establishmentDTO: toEstablishment(v.Establishment, v.Rating),
		Images:           make([]imageDTO, 0, len(v.Images)),
		Reviews:          make([]reviewDTO, 0, len(v.Reviews)),
	}
	for _, img := range v.Images {
		d.Images = append(d.Images, toImage(img))
	}
	for _, r := range v.Reviews {
		d.Reviews = append(d.Reviews, toReview(r))
	}
	return d
}

func toReview(r domain.Review) reviewDTO {
	return reviewDTO{
		ID: r.ID, EstablishmentID: r.EstablishmentID, UserName: r.UserName, UserEmail: r.UserEmail,
		Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt,
	}
}

func toImage(i domain.Image) imageDTO {
	return imageDTO{ID: i.ID, EstablishmentID: i.EstablishmentID, ImageURL: i.URL, IsPrimary: i.IsPrimary, CreatedAt: i.CreatedAt}
}

func toUser(u domain.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

// ---- requests ----

// establishmentInput is shared by create and partial update; absent keys stay nil.
type establishmentInput struct {
	UserID       *int64   `json:"user_id"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Address      *string  `json:"address"`
	Neighborhood *string  `json:"neighborhood"`
	Phone        *string  `json:"phone"`
	WhatsApp     *string  `json:"whatsapp"`
	Type         *string  `json:"type"`
	IsOpen       *bool    `json:"is_open"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImageURL     *string  `json:"image_url"`
	MenuURL      *string  `json:"menu_url"`
	Website      *string  `json:"website"`
	Instagram    *string  `json:"instagram"`
	PlanType     *string  `json:"plan_type"`
	IsApproved   *bool    `json:"is_approved"`
}

func (in establishmentInput) patch() domain.EstablishmentPatch {
	p := domain.EstablishmentPatch{
		Name: in.Name, Description: in.Description, Address: in.Address, Neighborhood: in.Neighborhood,
		Phone: in.Phone, WhatsApp: in.WhatsApp, Type: in.Type, IsOpen: in.IsOpen,
		Latitude: in.Latitude, Longitude: in.Longitude, ImageURL: in.ImageURL, MenuURL: in.MenuURL,
		Website: in.Website, Instagram: in.Instagram, IsApproved: in.IsApproved,
	}
	if in.PlanType != nil {
		pt := domain.PlanTier(strings.ToLower(strings.TrimSpace(*in.PlanType)))
		p.PlanType = &pt
	}
	return p
}

// establishment builds a new record; is_open defaults to true.
func (in establishmentInput) establishment() domain.Establishment {
	e := domain.Establishment{IsOpen: true}
	in.patch().Apply(&e)
	if in.UserID != nil {
		e.UserID = *in.UserID
	}
	return e
}

type reviewInput struct {
	UserName  string   `json:"user_name"`
	UserEmail string   `json:"user_email"`
	Rating    *float64 `json:"rating"`
	Comment   string   `json:"comment"`
}

// review rejects missing, fractional and out-of-range ratings without clamping.
func (in reviewInput) review(establishmentID int64) (domain.Review, error) {
	if in.Rating == nil {
		return domain.Review{}, domain.Invalid("rating", "required field")
	}
	rt := *in.Rating
	if rt != math.Trunc(rt) || rt < domain.MinRating || rt > domain.MaxRating {
		return domain.Review{}, domain.Invalid("rating", "must be an integer between 1 and 5")
	}
	r := domain.Review{
		EstablishmentID: establishmentID,
		UserName:        strings.TrimSpace(in.UserName),
		UserEmail:       strings.TrimSpace(in.UserEmail),
		Rating:          int(rt),
		Comment:         in.Comment,
	}
	return r, r.Validate()
}

type imageInput struct {
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

type approvalInput struct {
	Approved *bool `json:"approved"`
}

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerEstablishmentInput struct {
	establishmentInput
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginDTO struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        userDTO `json:"user"`
}

// ---- automation ----

type recipientInput struct {
	EstablishmentID   int64  `json:"establishment_id"`
	Phone             string `json:"phone"`
	EstablishmentName string `json:"establishment_name"`
}

type sendInput struct {
	Phone             string `json:"phone"`
	Message           string `json:"message"`
	EstablishmentName string `json:"establishment_name"`
}

type approvalNotificationInput struct {
	recipientInput
	Approved *bool `json:"approved"`
}

type renewalInput struct {
	recipientInput
	PlanType        string `json:"plan_type"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

type upsellInput struct {
	recipientInput
	CurrentPlan string `json:"current_plan"`
	ViewsCount  int    `json:"views_count"`
}
