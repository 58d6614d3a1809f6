package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/breeds/internal/browse"
	"github.com/Makepad-fr/breeds/internal/catapi"
	"github.com/Makepad-fr/breeds/internal/model"
	"github.com/Makepad-fr/breeds/internal/tui"
	"github.com/Makepad-fr/breeds/internal/ui"
)

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: breeds %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: breeds %s", usage)
		}
		return nil
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser (default)",
		Args:  exactArgs(0, "browse"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.browse(cmd)
		},
	}
}

// browse hands the terminal to the interactive browser. Logs go to a file
// with --debug and nowhere otherwise.
func (a *app) browse(cmd *cobra.Command) error {
	if a.debug {
		f, err := openDebugLog()
		if err != nil {
			return err
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.Nop()
	}

	sess, err := a.session(nil)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Options{
		Session:     sess,
		Tracker:     a.tracker,
		RotateEvery: a.cfg.RotateEvery.Std(),
	})
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every breed in the catalog",
		Args:  exactArgs(0, "list"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(stderrProgress(cmd))
			if err != nil {
				return err
			}
			breeds, err := sess.LoadBreeds(cmd.Context())
			if err != nil {
				return err
			}

			t := ui.NewTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Origin", "Life Span"})
			for _, b := range breeds {
				t.AppendRow(table.Row{b.ID, b.Name, b.Origin, b.LifeSpan})
			}
			t.AppendFooter(table.Row{"", "", "Total", len(breeds)})
			t.Render()
			return nil
		},
	}
}

// resolveBreed loads the catalog and finds the breed the user named.
func resolveBreed(cmd *cobra.Command, sess *browse.Session, args []string) (model.Breed, error) {
	breeds, err := sess.LoadBreeds(cmd.Context())
	if err != nil {
		return model.Breed{}, err
	}
	return browse.FindBreed(breeds, strings.Join(args, " "))
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <breed>",
		Short: "Show a breed's information panel",
		Args:  minArgs(1, "show <breed id or name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(stderrProgress(cmd))
			if err != nil {
				return err
			}
			b, err := resolveBreed(cmd, sess, args)
			if err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), ui.BreedInfo(b).Lines())
			return nil
		},
	}
}

func newImagesCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "images <breed>",
		Short: "List image URLs for a breed",
		Args:  minArgs(1, "images <breed id or name> [--limit n]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") {
				if limit <= 0 {
					return usagef("--limit must be positive")
				}
				a.cfg.ImageLimit = limit
			}
			sess, err := a.session(stderrProgress(cmd))
			if err != nil {
				return err
			}
			b, err := resolveBreed(cmd, sess, args)
			if err != nil {
				return err
			}
			sel, err := sess.Select(cmd.Context(), b.ID)
			if err != nil {
				return err
			}

			t := ui.NewTable(cmd.OutOrStdout())
			t.SetTitle(b.Name)
			t.AppendHeader(table.Row{"#", "Image ID", "URL", "Size"})
			for i, img := range sel.Images {
				t.AppendRow(table.Row{i + 1, img.ID, img.URL, fmt.Sprintf("%dx%d", img.Width, img.Height)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", catapi.DefaultImageLimit, "number of images to fetch")
	return cmd
}

func newFavouritesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "favourites",
		Aliases: []string{"favorites", "favs"},
		Short:   "List your favourite images, newest first",
		Args:    exactArgs(0, "favourites"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(stderrProgress(cmd))
			if err != nil {
				return err
			}
			view, err := sess.Favourites(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(view.Favourites) == 0 {
				fmt.Fprintln(out, ui.C(ui.Current().Muted, "no favourites yet for "+sess.SubID()))
				return nil
			}
			t := ui.NewTable(out)
			t.AppendHeader(table.Row{"Favourite", "Image ID", "URL", "Added"})
			for _, f := range view.Favourites {
				url := ""
				if f.Image != nil {
					url = f.Image.URL
				}
				added := ""
				if !f.CreatedAt.IsZero() {
					added = f.CreatedAt.Local().Format("2006-01-02 15:04")
				}
				t.AppendRow(table.Row{f.ID, f.ImageID, url, added})
			}
			t.Render()
			return nil
		},
	}
}

func newFavCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <image-id>",
		Short: "Toggle an image in your favourites",
		Args:  exactArgs(1, "fav <image-id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageID := model.ID(strings.TrimSpace(args[0]))
			if imageID == "" {
				return usagef("usage: breeds fav <image-id>")
			}
			sess, err := a.session(stderrProgress(cmd))
			if err != nil {
				return err
			}
			res, err := sess.ToggleFavourite(cmd.Context(), imageID)
			if err != nil {
				return err
			}
			log.Debug().Str("image_id", imageID.String()).Stringer("action", res.Action).Msg("favourite toggled")

			switch res.Action {
			case catapi.Added:
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s %s added to favourites (#%s)", ui.Current().SymHeart, imageID, res.FavouriteID))
			default:
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s %s removed from favourites", ui.Current().SymNoHeart, imageID))
			}
			return nil
		},
	}
}

func openDebugLog() (*os.File, error) {
	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return f, nil
}
