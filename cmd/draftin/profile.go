package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the résumé and instructions used for drafts",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save résumé sections and instructions",
	Long: "Updates the stored profile. Only the flags you pass are changed. With --from-file,\n" +
		"the profile is read from a YAML file with about_me, professional_experience,\n" +
		"projects, skills and additional_instructions keys; flags still override it.",
	RunE: runProfileSet,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored résumé and instructions",
	RunE:  runProfileShow,
}

var profileFlags struct {
	fromFile     string
	about        string
	experience   string
	projects     string
	skills       string
	instructions string
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileFlags.fromFile, "from-file", "", "YAML file with the profile")
	f.StringVar(&profileFlags.about, "about", "", "about me")
	f.StringVar(&profileFlags.experience, "experience", "", "professional experience")
	f.StringVar(&profileFlags.projects, "projects", "", "projects")
	f.StringVar(&profileFlags.skills, "skills", "", "skills")
	f.StringVar(&profileFlags.instructions, "instructions", "", "additional instructions for every draft")

	profileCmd.AddCommand(profileSetCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func openProfiles() (*store.SQLiteStore, *store.ProfileRepo, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return sqlStore, store.NewProfileRepo(sqlStore), nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	sqlStore, repo, err := openProfiles()
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	profile, err := repo.Load()
	if err != nil {
		return err
	}

	if profileFlags.fromFile != "" {
		data, err := os.ReadFile(profileFlags.fromFile)
		if err != nil {
			return fmt.Errorf("read profile file: %w", err)
		}
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return fmt.Errorf("parse profile file: %w", err)
		}
	}

	flags := cmd.Flags()
	for _, f := range []struct {
		name string
		val  string
		dst  *string
	}{
		{"about", profileFlags.about, &profile.AboutMe},
		{"experience", profileFlags.experience, &profile.ProfessionalExperience},
		{"projects", profileFlags.projects, &profile.Projects},
		{"skills", profileFlags.skills, &profile.Skills},
		{"instructions", profileFlags.instructions, &profile.AdditionalInstructions},
	} {
		if flags.Changed(f.name) {
			*f.dst = f.val
		}
	}

	if err := repo.Save(profile); err != nil {
		return err
	}
	logger.Info("profile saved",
		"resume_chars", len([]rune(profile.ResumeContent())),
		"instructions_chars", len([]rune(profile.AdditionalInstructions)),
	)
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	sqlStore, repo, err := openProfiles()
	if err != nil {
		return err
	}
	defer sqlStore.Close()

	profile, err := repo.Load()
	if err != nil {
		return err
	}
	if profile == (model.Profile{}) {
		fmt.Fprintln(cmd.OutOrStdout(), "No profile saved yet. Run `draftin profile set`.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, profile.ResumeContent())
	if profile.AdditionalInstructions != "" {
		fmt.Fprintf(out, "\nAdditional Instructions:\n%s\n", profile.AdditionalInstructions)
	}
	return nil
}
