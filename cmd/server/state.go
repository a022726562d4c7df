package main

import (
	"errors"
	"fmt"

	"ctchen222/Starter-Kit/internal/repository"
	"ctchen222/Starter-Kit/internal/store"

	"github.com/spf13/cobra"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the persisted state",
	}

	cmd.AddCommand(newStateShowCmd())
	cmd.AddCommand(newStateResetCmd())

	return cmd
}

func newStateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted state as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closer, err := openRepository(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer closer.Close()

			data, err := repo.Load(cmd.Context())
			if errors.Is(err, repository.ErrStateNotFound) {
				data, err = store.NewSnapshot().Encode()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newStateResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the persisted state with the initial state",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closer, err := openRepository(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer closer.Close()

			data, err := store.NewSnapshot().Encode()
			if err != nil {
				return err
			}
			if err := repo.Save(cmd.Context(), data); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "state reset")
			return nil
		},
	}
}
