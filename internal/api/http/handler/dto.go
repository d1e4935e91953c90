package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/photogallery-server/internal/model"
)

const uploadedDateLayout = "2006-01-02"

type loginRequest struct {
	UserName string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token" form:"Access_Token"`
	RefreshToken string `json:"refresh_token" form:"Refresh_Token"`
}

type registerRequest struct {
	UserName        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `json:"user_role"`
}

func newUserResponse(u model.User) userResponse {
	public := u.Public()
	return userResponse{
		ID:          public.ID,
		UserName:    public.UserName,
		Email:       public.Email,
		PhoneNumber: public.PhoneNumber,
		Role:        public.Role,
	}
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type refreshResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Expiration   int          `json:"expiration"`
	User         userResponse `json:"user"`
}

type revokeResponse struct {
	User userResponse `json:"user"`
}

type checkTokenUser struct {
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName"`
	Role       string    `json:"role"`
	Expiration time.Time `json:"expiration"`
}

type checkTokenResponse struct {
	IsAuthorized bool           `json:"isAuthorized"`
	User         checkTokenUser `json:"user"`
}

type statusResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
	Role     string    `json:"role"`
	Time     time.Time `json:"time"`
}

type photoResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	OwnerName    string   `json:"ownerName"`
	UploadedDate string   `json:"uploadedDate"`
	Tags         []string `json:"tags"`
	Thumbnail    string   `json:"thumbnail"`
}

func newPhotoResponse(p model.PhotoWithImage) photoResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return photoResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Location:     p.Location,
		OwnerName:    p.OwnerName,
		UploadedDate: p.UploadedAt.Format(uploadedDateLayout),
		Tags:         tags,
		Thumbnail:    p.Thumbnail,
	}
}

type photoListResponse struct {
	Records      []photoResponse `json:"records"`
	RecordsTotal int             `json:"recordsTotal"`
}

type tagResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
