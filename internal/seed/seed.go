// Package seed bootstraps a fresh database so the service is usable out of
// the box for local and self-hosted installs.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxgroupdomain "github.com/dinebilllabs/dinebill/internal/taxgroup/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnsureDefaults seeds the default org's baseline tax groups. Creating a
// bill with a service charge requires the reserved SERVICE_CHARGE_GST group,
// so the bootstrap guarantees it exists.
func EnsureDefaults(db *gorm.DB, node *snowflake.Node, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}
	if orgID == 0 {
		return errors.New("seed org id is required")
	}

	ctx := context.Background()
	org := snowflake.ID(orgID)

	defaults := []taxgroupdomain.TaxGroup{
		{
			Code:      "GST_5",
			Name:      "GST 5%",
			Rate:      decimal.NewFromInt(5),
			SplitType: taxgroupdomain.SplitCGSTSGST,
			IsActive:  true,
		},
		{
			Code:      taxgroupdomain.ServiceChargeCode,
			Name:      "Service Charge GST",
			Rate:      decimal.NewFromInt(5),
			SplitType: taxgroupdomain.SplitCGSTSGST,
			IsActive:  true,
		},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, group := range defaults {
			var existing taxgroupdomain.TaxGroup
			err := tx.Where("org_id = ? AND code = ?", org, group.Code).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			group.ID = node.Generate()
			group.OrgID = org
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
