/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/tachibk/internal/anilist"
	"github.com/Another0Noob/tachibk/internal/backup"
	"github.com/Another0Noob/tachibk/internal/catalog"
	"github.com/Another0Noob/tachibk/internal/config"
	"github.com/Another0Noob/tachibk/internal/match"
	"github.com/Another0Noob/tachibk/internal/report"
)

var (
	anilistUser       string
	anilistUseAuth    bool
	anilistConfigPath string
	anilistOutput     string
	anilistLists      string
	anilistCompare    string
	anilistFuzzy      bool
	anilistExportJSON string
)

// anilistCmd represents the anilist command
var anilistCmd = &cobra.Command{
	Use:   "anilist",
	Short: "Build a backup from an AniList manga list",
	Long: `Fetch a user's AniList manga lists and convert them into a
Mihon/Tachiyomi backup.

Public lists only need --user. Private lists need --auth plus an ini file
with the OAuth client credentials:

  [anilist]
  client_id     = ...
  client_secret = ...

With --compare, entries already present in an existing backup are skipped
and the new ones are appended to it; a companion report lists what was
skipped. --export-json additionally writes the fetched titles in the
reference format understood by find-duplicates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAniList()
	},
}

func init() {
	rootCmd.AddCommand(anilistCmd)

	anilistCmd.Flags().StringVarP(
		&anilistUser,
		"user",
		"u",
		"",
		"AniList username (for public lists)",
	)

	anilistCmd.Flags().BoolVar(
		&anilistUseAuth,
		"auth",
		false,
		"authenticate via the OAuth pin flow (for private lists)",
	)

	anilistCmd.Flags().StringVarP(
		&anilistConfigPath,
		"config",
		"c",
		"anilist.ini",
		"path to the OAuth credentials file",
	)

	anilistCmd.Flags().StringVarP(
		&anilistOutput,
		"output",
		"o",
		"tachiyomi_backup.tachibk",
		"output backup file",
	)

	anilistCmd.Flags().StringVarP(
		&anilistLists,
		"lists",
		"l",
		"all",
		"comma-separated list statuses to include (CURRENT,PLANNING,COMPLETED,DROPPED,PAUSED,REPEATING) or \"all\"",
	)

	anilistCmd.Flags().StringVar(
		&anilistCompare,
		"compare",
		"",
		"existing backup to compare against; entries it already holds are skipped",
	)

	anilistCmd.Flags().BoolVar(
		&anilistFuzzy,
		"fuzzy",
		false,
		"also treat near-identical titles as already present when comparing",
	)

	anilistCmd.Flags().StringVarP(
		&anilistExportJSON,
		"export-json",
		"e",
		"",
		"also export the fetched titles as reference JSON for find-duplicates",
	)
}

func runAniList() error {
	client := anilist.NewClient()
	ctx := context.Background()

	var user *anilist.User
	var err error

	switch {
	case anilistUseAuth:
		user, err = authenticate(ctx, client, anilistConfigPath)
		if err != nil {
			return err
		}
	case anilistUser != "":
		user, err = client.LookupUser(ctx, anilistUser)
		if err != nil {
			return fmt.Errorf("look up user: %w", err)
		}
	default:
		return fmt.Errorf("provide either --user <username> or --auth")
	}

	fmt.Println("--- Requesting AniList Manga ---")

	lists, err := client.MangaList(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("fetch manga list: %w", err)
	}

	total := 0
	for _, l := range lists {
		total += len(l.Entries)
	}
	fmt.Printf("Got %d manga in %d lists.\n", total, len(lists))

	lists = anilist.FilterLists(lists, anilistLists)

	if anilistExportJSON != "" {
		if err := catalog.WriteReferences(anilistExportJSON, anilist.References(lists)); err != nil {
			return fmt.Errorf("export reference data: %w", err)
		}
		fmt.Printf("AniList manga data exported to %s\n", anilistExportJSON)
	}

	var out *backup.Backup
	var skipped []report.SkippedEntry

	if anilistCompare != "" {
		out, skipped, err = buildWithCompare(lists, anilistCompare, anilistFuzzy)
		if err != nil {
			return err
		}
	} else {
		out = build(lists)
	}

	if err := backup.WriteFile(anilistOutput, out); err != nil {
		return err
	}
	fmt.Printf("Backup with %d manga created at %s\n", len(out.Manga), anilistOutput)

	if len(skipped) > 0 {
		reportPath := derivedReportPath(anilistOutput, "_skipped.md")
		meta := report.Metadata{
			RunID:     uuid.NewString(),
			Generated: time.Now(),
			Output:    anilistOutput,
			Backup:    anilistCompare,
		}
		if err := os.WriteFile(reportPath, []byte(report.RenderImportSkipped(meta, skipped)), 0o644); err != nil {
			return fmt.Errorf("write skipped report: %w", err)
		}
		fmt.Printf("Skipped %d existing manga; report at %s\n", len(skipped), reportPath)
	}

	return nil
}

// authenticate runs the OAuth pin flow: the user opens the printed URL,
// authorizes the client, and pastes the code back.
func authenticate(ctx context.Context, client *anilist.Client, configPath string) (*anilist.User, error) {
	auth, err := config.LoadAuth(configPath)
	if err != nil {
		return nil, fmt.Errorf("load auth: %w", err)
	}
	if auth.ClientID == "" || auth.ClientSecret == "" {
		return nil, fmt.Errorf("oauth configuration incomplete: set client_id and client_secret in %s", configPath)
	}

	fmt.Println("--- AniList Authentication ---")
	fmt.Println("Open this URL in your browser and authorize the application:")
	fmt.Println(anilist.AuthCodeURL(auth.ClientID, auth.RedirectURL))
	fmt.Print("Paste the authorization code: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("empty authorization code")
	}

	if err := client.ExchangeCode(ctx, auth, code); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	user, err := client.Viewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticated user: %w", err)
	}
	fmt.Printf("Authenticated as %s (ID: %d).\n", user.Name, user.ID)
	return user, nil
}

// build converts the filtered lists into a fresh backup.
func build(lists []anilist.List) *backup.Backup {
	out := &backup.Backup{}
	for _, l := range lists {
		for _, e := range l.Entries {
			out.Manga = append(out.Manga, e.ToManga())
		}
	}
	return out
}

// buildWithCompare appends new entries to the comparison backup, skipping
// those it already holds by AniList id, any title variant, or (optionally)
// fuzzy title similarity.
func buildWithCompare(lists []anilist.List, comparePath string, useFuzzy bool) (*backup.Backup, []report.SkippedEntry, error) {
	existing, err := backup.ReadFile(comparePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read comparison backup: %w", err)
	}
	col := existing.Collection(comparePath, 0)
	index := match.NewTitleIndex(col.Records)

	fmt.Printf("Comparing against %d existing manga.\n", len(existing.Manga))

	out := &backup.Backup{Manga: existing.Manga, Aux: existing.Aux}
	var skipped []report.SkippedEntry

	for _, l := range lists {
		for _, e := range l.Entries {
			if existsIn(index, e, useFuzzy) {
				skipped = append(skipped, report.SkippedEntry{
					Title:  e.Media.Title.Preferred(),
					Status: l.Status,
				})
				continue
			}
			out.Manga = append(out.Manga, e.ToManga())
		}
	}
	return out, skipped, nil
}

func existsIn(index *match.TitleIndex, e anilist.Entry, useFuzzy bool) bool {
	if index.HasCrossRef(match.SiteAniList, strconv.FormatInt(e.Media.ID, 10)) {
		return true
	}
	for _, title := range []string{e.Media.Title.English, e.Media.Title.Romaji, e.Media.Title.Native} {
		if title != "" && index.HasTitle(title) {
			return true
		}
	}
	for _, synonym := range e.Media.Synonyms {
		if synonym != "" && index.HasTitle(synonym) {
			return true
		}
	}
	if useFuzzy {
		if t := e.Media.Title.Preferred(); t != "" && index.HasSimilarTitle(t) {
			return true
		}
	}
	return false
}
