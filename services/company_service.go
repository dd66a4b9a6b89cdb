package services

import (
	"errors"
	"log"

	"truckbot/models"

	"gorm.io/gorm"
)

type CompanyService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewCompanyService(db *gorm.DB, catalog *CatalogService) *CompanyService {
	return &CompanyService{db: db, catalog: catalog}
}

func (s *CompanyService) Get(name string) (*models.Company, error) {
	var company models.Company
	if err := s.db.Where("name = ?", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Members returns every player whose company reference matches.
func (s *CompanyService) Members(name string) ([]models.Player, error) {
	var members []models.Player
	err := s.db.Where("company = ?", name).Order("miles DESC").Find(&members).Error
	return members, err
}

// Found creates a company headquartered on the founder's current map cell.
// The cell must be empty: not a catalog place and not another company's HQ.
func (s *CompanyService) Found(founder *models.Player, name, logo string) (*models.Company, error) {
	if founder.Company != "" {
		return nil, models.ErrAlreadyInCompany
	}
	if _, err := s.Get(name); err == nil {
		return nil, models.ErrCompanyNameTaken
	} else if !errors.Is(err, models.ErrCompanyNotFound) {
		return nil, err
	}

	hq := founder.Pos()
	if _, occupied := s.catalog.PlaceAt(hq); occupied {
		return nil, models.ErrPositionOccupied
	}
	var clash models.Company
	if err := s.db.Where("position = ?", hq.Encode()).First(&clash).Error; err == nil {
		return nil, models.ErrPositionOccupied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if logo == "" {
		logo = "🏢"
	}
	company := models.Company{
		Name:     name,
		Founder:  founder.ID,
		Position: hq.Encode(),
		Logo:     logo,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, err
	}

	founder.Company = company.Name
	if err := s.db.Model(founder).Update("company", founder.Company).Error; err != nil {
		return nil, err
	}

	log.Printf("Player %s founded company %q at (%d,%d)", founder.ID, name, hq.X, hq.Y)
	return &company, nil
}

// Hire adds a companyless player to the founder's company. Founder-only.
func (s *CompanyService) Hire(founder *models.Player, target *models.Player) error {
	company, err := s.companyOfFounder(founder)
	if err != nil {
		return err
	}
	if target.Company != "" {
		return models.ErrAlreadyInCompany
	}
	target.Company = company.Name
	return s.db.Model(target).Update("company", target.Company).Error
}

// Fire removes a member. Founder-only, and the founder cannot fire
// themselves: self-removal goes through Leave (which founders can't use
// either; dissolution is an admin operation).
func (s *CompanyService) Fire(founder *models.Player, target *models.Player) error {
	company, err := s.companyOfFounder(founder)
	if err != nil {
		return err
	}
	if target.ID == founder.ID {
		return models.ErrCannotFireSelf
	}
	if target.Company != company.Name {
		return models.ErrNotInCompany
	}
	target.Company = ""
	return s.db.Model(target).Update("company", target.Company).Error
}

func (s *CompanyService) Leave(player *models.Player) error {
	if player.Company == "" {
		return models.ErrCompanyNotFound
	}
	company, err := s.Get(player.Company)
	if err != nil {
		return err
	}
	if company.Founder == player.ID {
		return models.ErrFounderCannotLeave
	}
	player.Company = ""
	return s.db.Model(player).Update("company", player.Company).Error
}

// AddNetWorth applies a signed adjustment to a company's net worth.
func (s *CompanyService) AddNetWorth(name string, amount int64) error {
	result := s.db.Model(&models.Company{}).Where("name = ?", name).
		Update("net_worth", gorm.Expr("net_worth + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrCompanyNotFound
	}
	return nil
}

func (s *CompanyService) RemoveNetWorth(name string, amount int64) error {
	return s.AddNetWorth(name, -amount)
}

// Companies lists every company, richest first, for the dashboard.
func (s *CompanyService) Companies() ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Order("net_worth DESC").Find(&companies).Error
	return companies, err
}

// CompanyAt returns the company headquartered on a map cell, if any.
func (s *CompanyService) CompanyAt(pos models.Position) (*models.Company, bool) {
	var company models.Company
	if err := s.db.Where("position = ?", pos.Encode()).First(&company).Error; err != nil {
		return nil, false
	}
	return &company, true
}

func (s *CompanyService) companyOfFounder(founder *models.Player) (*models.Company, error) {
	if founder.Company == "" {
		return nil, models.ErrCompanyNotFound
	}
	company, err := s.Get(founder.Company)
	if err != nil {
		return nil, err
	}
	if company.Founder != founder.ID {
		return nil, models.ErrNotFounder
	}
	return company, nil
}

func (s *CompanyService) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Company{}).Count(&n).Error
	return n, err
}
