package service

import (
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/repository"
)

var exportHeader = []interface{}{
	"id",
	"project",
	"pi",
	"resources",
	"status",
	"quantity",
	"start_date",
	"end_date",
	"expires_in",
	"justification",
	"description",
	"information",
}

// Export 导出订阅为 xlsx，status 为空时导出全部状态
func (s *SubscriptionService) Export(w io.Writer, projectID int64, statusName string) (int, error) {
	filter := repository.SubscriptionFilter{ProjectID: projectID}
	if statusName != "" {
		status, err := s.status(statusName)
		if err != nil {
			return 0, err
		}
		filter.StatusID = status.ID
	}

	subs, err := s.stores.Subscriptions.ListAll(filter)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Subscriptions"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return 0, err
	}

	today := s.now()
	for i, sub := range subs {
		row := exportRow(sub, today, s.information(sub.Attributes))
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, err
		}
	}

	if err := f.Write(w); err != nil {
		return 0, err
	}
	return len(subs), nil
}

func exportRow(sub *model.Subscription, today time.Time, info []string) []interface{} {
	pi := ""
	project := ""
	if sub.Project != nil {
		project = sub.Project.Title
		if sub.Project.PI != nil {
			pi = sub.Project.PI.Username
		}
	}
	description := ""
	if sub.Description != nil {
		description = *sub.Description
	}
	var expiresIn interface{}
	if days := sub.ExpiresIn(today); days != nil {
		expiresIn = *days
	}

	return []interface{}{
		sub.ID,
		project,
		pi,
		sub.ResourcesAsString(),
		sub.StatusName(),
		sub.Quantity,
		model.FormatDate(sub.StartDate),
		model.FormatDate(sub.EndDate),
		expiresIn,
		sub.Justification,
		description,
		strings.Join(info, "\n"),
	}
}
