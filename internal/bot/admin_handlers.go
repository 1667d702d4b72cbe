package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/navikon/atlasbot/internal/directory"
	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/report"
	"github.com/navikon/atlasbot/internal/repository"
	"gopkg.in/telebot.v4"
)

// addEmployeeHandler creates a directory record from command arguments:
// /addemployee Имя Фамилия [Должность]. Validation problems are collected
// and reported together, not one at a time.
func (b *Bot) addEmployeeHandler(ctx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/addemployee").Inc()

	args := ctx.Args()
	if len(args) < 2 {
		return ctx.Send("Использование: /addemployee Имя Фамилия [Должность]")
	}

	emp := models.Employee{
		FirstName: args[0],
		LastName:  args[1],
		Position:  strings.Join(args[2:], " "),
	}

	if problems := directory.ValidateEmployee(emp); len(problems) > 0 {
		return ctx.Send(apperr.UserMessage(apperr.Validation(problems)))
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	start := time.Now()
	id, err := b.employees.CreateEmployee(timeoutCtx, emp)
	b.metrics.DBQueryDuration.WithLabelValues("create_employee").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ctx.Send("❌ Сотрудник с таким email уже существует.")
		}
		b.log.Error("Failed to create employee", "error", err)
		return ctx.Send(apperr.UserMessage(apperr.Database(err)))
	}

	b.log.Info("Employee created", "id", id, "name", emp.FullName(), "by", ctx.Sender().ID)
	return ctx.Send(fmt.Sprintf("Сотрудник %q добавлен.", emp.FullName()))
}

// exportHandler sends the whole directory as an Excel workbook.
func (b *Bot) exportHandler(ctx telebot.Context) error {
	b.metrics.CommandReceived.WithLabelValues("/export").Inc()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	start := time.Now()
	employees, err := b.employees.ListEmployees(timeoutCtx)
	b.metrics.DBQueryDuration.WithLabelValues("list_employees").Observe(time.Since(start).Seconds())
	if err != nil {
		b.log.Error("Failed to list employees for export", "error", err)
		return ctx.Send(apperr.UserMessage(apperr.Database(err)))
	}

	buffer, err := report.GenerateDirectoryExport(employees)
	if err != nil {
		if errors.Is(err, report.ErrNoEmployees) {
			return ctx.Send("Список сотрудников пуст.")
		}
		b.log.Error("Failed to generate directory export", "error", err)
		return ctx.Send("💩 Не удалось сформировать файл, попробуйте позже.")
	}

	document := &telebot.Document{
		File:     telebot.FromReader(buffer),
		FileName: "employees.xlsx",
	}

	return ctx.Send(document)
}
