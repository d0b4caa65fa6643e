package repositories

import (
	"lolitems/internal/models"

	"gorm.io/gorm"
)

// itemRecord is the row layout of the items table.
type itemRecord struct {
	Name        string       `gorm:"primaryKey;type:varchar(30)"`
	Description *string      `gorm:"type:varchar(1000)"`
	Price       float64      `gorm:"not null;index"`
	SellPrice   float64      `gorm:"not null"`
	Stats       []statRecord `gorm:"foreignKey:ItemName;references:Name;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (itemRecord) TableName() string { return "items" }

// statRecord holds one stat value of an item.
type statRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	ItemName string `gorm:"type:varchar(30);not null;uniqueIndex:idx_stats_item_name"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_stats_item_name;index"`
	Value    int    `gorm:"not null"`
}

func (statRecord) TableName() string { return "stats" }

type userRecord struct {
	UserName string `gorm:"primaryKey;type:varchar(30)"`
	Password string `gorm:"type:varchar(255);not null"`
	Active   bool   `gorm:"not null;default:true"`
}

func (userRecord) TableName() string { return "users" }

// AutoMigrate creates the tables used by the GORM repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&itemRecord{}, &statRecord{}, &userRecord{})
}

func newItemRecord(item *models.Item) itemRecord {
	rec := itemRecord{
		Name:      item.Name,
		Price:     item.Price,
		SellPrice: item.SellPrice,
		Stats:     statRecords(item.Name, item.Stats),
	}
	if item.Description != nil {
		d := *item.Description
		rec.Description = &d
	}
	return rec
}

func statRecords(itemName string, stats map[models.Stat]int) []statRecord {
	out := make([]statRecord, 0, len(stats))
	for _, s := range models.AllStats {
		if v, ok := stats[s]; ok {
			out = append(out, statRecord{ItemName: itemName, Name: string(s), Value: v})
		}
	}
	return out
}

func (r itemRecord) toModel() *models.Item {
	item := &models.Item{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		SellPrice:   r.SellPrice,
		Stats:       make(map[models.Stat]int, len(r.Stats)),
	}
	for _, s := range r.Stats {
		item.Stats[models.Stat(s.Name)] = s.Value
	}
	return item
}

func (r userRecord) toModel() *models.User {
	return &models.User{
		UserName:     r.UserName,
		PasswordHash: r.Password,
		Active:       r.Active,
	}
}
