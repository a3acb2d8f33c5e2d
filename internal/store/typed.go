package store

import (
	"context"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/timecard"
)

// LoadItems restores the todos document. A missing document is an empty list.
func (db *DB) LoadItems(ctx context.Context, repo *listitem.Repository) ([]listitem.ListItem, error) {
	body, ok, err := db.LoadDocument(ctx, DocTodos)
	if err != nil || !ok {
		return nil, err
	}
	return repo.FromJSONText(body)
}

func (db *DB) SaveItems(ctx context.Context, repo *listitem.Repository, items []listitem.ListItem) error {
	body, err := repo.ToJSONText(items)
	if err != nil {
		return err
	}
	return db.SaveDocument(ctx, DocTodos, body)
}

// LoadTimecard restores the timecard document. A missing document is empty.
func (db *DB) LoadTimecard(ctx context.Context) (timecard.Data, error) {
	body, ok, err := db.LoadDocument(ctx, DocTimecard)
	if err != nil {
		return nil, err
	}
	if !ok {
		return timecard.Data{}, nil
	}
	return timecard.FromJSONText(body)
}

func (db *DB) SaveTimecard(ctx context.Context, data timecard.Data) error {
	body, err := timecard.ToJSONText(data)
	if err != nil {
		return err
	}
	return db.SaveDocument(ctx, DocTimecard, body)
}

// LoadProjects restores the project-definitions document.
func (db *DB) LoadProjects(ctx context.Context) (project.Repository, error) {
	body, ok, err := db.LoadDocument(ctx, DocProjects)
	if err != nil {
		return nil, err
	}
	if !ok {
		return project.Repository{}, nil
	}
	return project.FromJSONText(body)
}

func (db *DB) SaveProjects(ctx context.Context, repo project.Repository) error {
	body, err := project.ToJSONText(repo)
	if err != nil {
		return err
	}
	return db.SaveDocument(ctx, DocProjects, body)
}
