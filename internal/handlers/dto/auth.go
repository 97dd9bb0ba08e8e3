package dto

// RegisterRequest binds the multipart registration form; the optional
// profile_picture file is read separately from the request.
type RegisterRequest struct {
	Name         string `form:"name" binding:"required"`
	Phone        string `form:"phone" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	Password     string `form:"password" binding:"required,min=6"`
	Age          int    `form:"age" binding:"required"`
	Gender       string `form:"gender" binding:"required,oneof=male female"`
	City         string `form:"city" binding:"required"`
	State        string `form:"state" binding:"required"`
	Country      string `form:"country" binding:"required"`
	ChurchName   string `form:"church_name" binding:"required"`
	SocialStatus string `form:"social_status" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
