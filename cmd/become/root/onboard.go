package root

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"become/internal/engine"
	"become/internal/ui"
)

type onboardIdentity struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Attributes  []string `yaml:"attributes"`
}

// onboardPlan is the file read by `become onboard`.
type onboardPlan struct {
	Identities []onboardIdentity `yaml:"identities"`
	Tasks      []engine.DayTask  `yaml:"tasks"`
}

func readOnboardPlan(path string) (onboardPlan, error) {
	var plan onboardPlan
	data, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("read plan: %w", err)
	}
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return plan, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if len(plan.Identities) == 0 && len(plan.Tasks) == 0 {
		return plan, errors.New("plan has no identities and no tasks")
	}
	return plan, nil
}

func newOnboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard <plan.yaml>",
		Short: "Create identities and today's quests from a plan file",
		Example: `  identities:
    - name: Writer
      category: Creative
      attributes: [Focus, Discipline]
  tasks:
    - identity: Writer
      title: Morning pages
      time: "07:30"
      xp: 40`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("plan file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readOnboardPlan(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(plan.Identities) > 0 {
				ins := make([]engine.CreateIdentityInput, len(plan.Identities))
				for i, id := range plan.Identities {
					ins[i] = engine.CreateIdentityInput{
						Name:        id.Name,
						Category:    engine.ParseCategory(id.Category),
						Description: id.Description,
						Attributes:  id.Attributes,
					}
				}
				res, err := svc.OnboardIdentities(ctx, ins)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %d new, %d already present\n", ui.IconIdentity, ui.Good.Render("Identities:"),
					len(res.CreatedIDs), len(ins)-len(res.CreatedIDs))
				printAwards(out, res.Awards)
			}
			if len(plan.Tasks) > 0 {
				res, err := svc.PlanDay(ctx, plan.Tasks)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %d planned for today\n", ui.IconQuest, ui.Good.Render("Quests:"), len(res.CreatedIDs))
				for _, id := range res.CreatedIDs {
					if q := res.Snapshot.FindQuest(id); q != nil {
						fmt.Fprintf(out, "- %s %s %s\n", ui.Muted.Render(shortID(q.ID)), q.Title,
							ui.Muted.Render(fmt.Sprintf("(%s, %d xp)", identityName(res.Snapshot, q.LinkedIdentityID), q.XPReward)))
					}
				}
				printAwards(out, res.Awards)
			}
			return nil
		},
	}
}
