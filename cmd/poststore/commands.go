package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/gouniverse/poststore"
	"github.com/gouniverse/poststore/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// postView is the printable shape of a post for json and yaml output.
type postView struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	ImageUrl    string `json:"imageUrl" yaml:"imageUrl"`
	FullContent string `json:"fullContent" yaml:"fullContent"`
}

func toPostView(post poststore.Post) postView {
	return postView{
		ID:          post.ID(),
		Title:       post.Title(),
		Description: post.Description(),
		ImageUrl:    post.ImageUrl(),
		FullContent: post.FullContent(),
	}
}

func newListCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPosts(cmd.OutOrStdout(), output, c.store.PostList())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")

	return cmd
}

func printPosts(w io.Writer, format string, posts []poststore.Post) error {
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()

	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION")
		for _, view := range views {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", view.ID, view.Title, view.Description)
		}
		return tw.Flush()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newCreateCmd(c *cli) *cobra.Command {
	var input poststore.PostCreateInput
	var imagePath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post and persist the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				input.ImageData = data
			}

			post, err := c.store.PostCreate(cmd.Context(), input)
			if post == nil {
				return err
			}
			if err != nil {
				c.logger.Warn("post created but not persisted", zap.Int("id", post.ID()), zap.Error(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created post %d (%s)\n", post.ID(), post.Slug())
			return err
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "post title")
	cmd.Flags().StringVar(&input.Description, "description", "", "short description")
	cmd.Flags().StringVar(&input.FullContent, "content", "", "full content")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to an image file")

	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a post by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			existed := c.store.PostFindByID(postID) != nil
			if err := c.store.PostDeleteByID(cmd.Context(), postID); err != nil {
				return err
			}

			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted post %d\n", postID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "post %d not found\n", postID)
			}
			return nil
		},
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), c.store.ThemeGet(cmd.Context()))
				return nil
			}

			theme, err := poststore.ParseTheme(args[0])
			if err != nil {
				return err
			}

			if err := c.store.ThemeSet(cmd.Context(), theme); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}

func newServeCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the posts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.ListenAddr
			}

			app, err := server.NewApp(server.Options{
				Store:  c.store,
				Images: c.images,
				Logger: c.logger,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				c.logger.Info("listening", zap.String("addr", addr))
				errCh <- app.Listen(addr)
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			c.logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return app.ShutdownWithContext(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to POSTSTORE_LISTEN_ADDR)")

	return cmd
}
