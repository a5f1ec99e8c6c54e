package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"unique;not null"          json:"username"`
	Email        string     `gorm:"unique;not null"          json:"email"`
	FullName     string     `gorm:"not null"                 json:"full_name"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `gorm:"not null"                 json:"role"`
	IsActive     bool       `gorm:"default:true"             json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

type News struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TitleUz   string `gorm:"size:255;not null"        json:"title_uz"`
	TitleRu   string `gorm:"size:255;not null"        json:"title_ru"`
	TitleEn   string `gorm:"size:255;not null"        json:"title_en"`
	ContentUz string `gorm:"type:text;not null"       json:"content_uz"`
	ContentRu string `gorm:"type:text;not null"       json:"content_ru"`
	ContentEn string `gorm:"type:text;not null"       json:"content_en"`

	ImagePath string `gorm:"size:255" json:"image_path,omitempty"`

	IsActive   bool `gorm:"default:true"  json:"is_active"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Announcement struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TitleUz   string `gorm:"size:255;not null"        json:"title_uz"`
	TitleRu   string `gorm:"size:255;not null"        json:"title_ru"`
	TitleEn   string `gorm:"size:255;not null"        json:"title_en"`
	ContentUz string `gorm:"type:text;not null"       json:"content_uz"`
	ContentRu string `gorm:"type:text;not null"       json:"content_ru"`
	ContentEn string `gorm:"type:text;not null"       json:"content_en"`

	ImagePath string `gorm:"size:255" json:"image_path,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Law struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"size:50;not null"         json:"order_number"`
	NameUz      string `gorm:"size:500;not null"        json:"name_uz"`
	NameRu      string `gorm:"size:500;not null"        json:"name_ru"`
	NameEn      string `gorm:"size:500;not null"        json:"name_en"`
	AuthorityUz string `gorm:"size:255;not null"        json:"authority_uz"`
	AuthorityRu string `gorm:"size:255;not null"        json:"authority_ru"`
	AuthorityEn string `gorm:"size:255;not null"        json:"authority_en"`

	AdoptionDate  time.Time `json:"adoption_date"`
	EffectiveDate time.Time `json:"effective_date"`

	LexUzLink string `gorm:"size:500" json:"lex_uz_link,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UrbanNorm struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentCode string `gorm:"size:50;unique;not null"  json:"document_code"`
	NameUz       string `gorm:"size:500;not null"        json:"name_uz"`
	NameRu       string `gorm:"size:500;not null"        json:"name_ru"`
	NameEn       string `gorm:"size:500;not null"        json:"name_en"`

	LexUzLink string `gorm:"size:500" json:"lex_uz_link,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Standard struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	NameUz        string `gorm:"size:500;not null"        json:"name_uz"`
	NameRu        string `gorm:"size:500;not null"        json:"name_ru"`
	NameEn        string `gorm:"size:500;not null"        json:"name_en"`
	DescriptionUz string `gorm:"type:text"                json:"description_uz"`
	DescriptionRu string `gorm:"type:text"                json:"description_ru"`
	DescriptionEn string `gorm:"type:text"                json:"description_en"`

	DocumentPath string `gorm:"size:255" json:"document_path,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BuildingRegulation struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentNumber string `gorm:"size:50;not null"         json:"document_number"`
	Designation    string `gorm:"size:100;not null"        json:"designation"`
	NameUz         string `gorm:"size:500;not null"        json:"name_uz"`
	NameRu         string `gorm:"size:500;not null"        json:"name_ru"`
	NameEn         string `gorm:"size:500;not null"        json:"name_en"`

	DocumentPath string `gorm:"size:255" json:"document_path,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SmetaResourceNorm struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentNumber string `gorm:"size:50;not null"         json:"document_number"`
	ShnqNumber     string `gorm:"size:50;not null"         json:"shnq_number"`
	ShnqNameUz     string `gorm:"size:500;not null"        json:"shnq_name_uz"`
	ShnqNameRu     string `gorm:"size:500;not null"        json:"shnq_name_ru"`
	ShnqNameEn     string `gorm:"size:500;not null"        json:"shnq_name_en"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Reference struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferenceNumber string `gorm:"size:50;not null"         json:"reference_number"`
	NameUz          string `gorm:"size:500;not null"        json:"name_uz"`
	NameRu          string `gorm:"size:500;not null"        json:"name_ru"`
	NameEn          string `gorm:"size:500;not null"        json:"name_en"`

	DocumentPath string `gorm:"size:255" json:"document_path,omitempty"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InstitutePage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug      string `gorm:"size:100;unique;not null" json:"slug"`
	TitleUz   string `gorm:"size:255;not null"        json:"title_uz"`
	TitleRu   string `gorm:"size:255;not null"        json:"title_ru"`
	TitleEn   string `gorm:"size:255;not null"        json:"title_en"`
	ContentUz string `gorm:"type:text;not null"       json:"content_uz"`
	ContentRu string `gorm:"type:text;not null"       json:"content_ru"`
	ContentEn string `gorm:"type:text;not null"       json:"content_en"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contact struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName string `gorm:"size:255;not null"        json:"full_name"`
	Email    string `gorm:"size:100;not null"        json:"email"`
	Phone    string `gorm:"size:20"                  json:"phone,omitempty"`
	Subject  string `gorm:"size:255"                 json:"subject,omitempty"`
	Message  string `gorm:"type:text;not null"       json:"message"`

	IsRead    bool `gorm:"default:false" json:"is_read"`
	IsReplied bool `gorm:"default:false" json:"is_replied"`

	AdminResponse string     `gorm:"type:text" json:"admin_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
