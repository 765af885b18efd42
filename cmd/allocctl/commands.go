package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/database"
	"github.com/qs3c/alloc_server/internal/model"
	"github.com/qs3c/alloc_server/internal/model/dto"
	"github.com/qs3c/alloc_server/internal/pkg/cron"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新数据表",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.AutoMigrate(a.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.Logger.Info("migration complete", zap.Int("models", len(database.Models())))
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入默认状态与属性类型",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Vocabulary.SeedDefaults()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"created: %d statuses, %d user statuses, %d attribute kinds, %d attribute types\n",
				result.Statuses, result.UserStatuses, result.AttributeKinds, result.AttributeTypes)
			return nil
		},
	}
}

func userCommand() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}

	var req dto.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "创建用户",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.Auth.CreateUser(&req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d %s (staff=%t)\n", info.ID, info.Username, info.IsStaff)
			return nil
		},
	}
	create.Flags().StringVar(&req.Username, "username", "", "login name")
	create.Flags().StringVar(&req.Password, "password", "", "password")
	create.Flags().StringVar(&req.Email, "email", "", "e-mail address")
	create.Flags().StringVar(&req.FirstName, "first-name", "", "")
	create.Flags().StringVar(&req.LastName, "last-name", "", "")
	create.Flags().BoolVar(&req.IsStaff, "staff", false, "grant staff")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	user.AddCommand(create)
	return user
}

func projectCommand() *cobra.Command {
	project := &cobra.Command{
		Use:   "project",
		Short: "项目管理",
	}

	var title, pi, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "创建项目",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			owner, err := a.Stores.Users.GetByUsername(pi)
			if err != nil {
				return fmt.Errorf("pi %q: %w", pi, err)
			}
			p := &model.Project{
				Title:       title,
				PIID:        owner.ID,
				Description: description,
				Status:      "Active",
			}
			if err := a.Stores.Projects.Create(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d %s\n", p.ID, p.Title)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "project title")
	create.Flags().StringVar(&pi, "pi", "", "username of the principal investigator")
	create.Flags().StringVar(&description, "description", "", "")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("pi")

	project.AddCommand(create)
	return project
}

func resourceCommand() *cobra.Command {
	resource := &cobra.Command{
		Use:   "resource",
		Short: "资源管理",
	}

	var r model.Resource
	create := &cobra.Command{
		Use:   "create",
		Short: "创建资源",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Stores.Resources.Create(&r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resource %d %s\n", r.ID, r.Name)
			return nil
		},
	}
	create.Flags().StringVar(&r.Name, "name", "", "resource name")
	create.Flags().StringVar(&r.ResourceType, "type", "Cluster", "resource type")
	create.Flags().StringVar(&r.Description, "description", "", "")
	create.Flags().BoolVar(&r.IsSubscribable, "subscribable", true, "")
	_ = create.MarkFlagRequired("name")

	resource.AddCommand(create)
	return resource
}

func expireCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "立即执行一次过期巡检",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sweeper := cron.NewService(a.Subscription, a.Config.Subscription.SweepHour, a.Logger)
			result, err := sweeper.RunNow(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "expired %d subscriptions\n", len(result.Expired))
			failed := make([]int64, 0, len(result.Failed))
			for id := range result.Failed {
				failed = append(failed, id)
			}
			sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
			for _, id := range failed {
				fmt.Fprintf(out, "  %d: %s\n", id, result.Failed[id])
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d subscriptions failed to expire", len(failed))
			}
			return nil
		},
	}
}

func exportCommand() *cobra.Command {
	var (
		output    string
		projectID int64
		status    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出订阅为 xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := a.Subscription.Export(f, projectID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d subscriptions to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "subscriptions.xlsx", "output file")
	cmd.Flags().Int64Var(&projectID, "project", 0, "filter by project id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status name")
	return cmd
}
