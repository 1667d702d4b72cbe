// Command seed populates an empty employee table with the canonical Навикон
// roster. Positions are derived from the "Компания, Роль" department strings
// or from role tails glued onto surnames in the source data. Running against
// a non-empty table is a no-op.
package main

import (
	"context"
	"log"
	"time"

	"github.com/navikon/atlasbot/config"
	"github.com/navikon/atlasbot/internal/directory"
	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/repository"
)

type rosterEntry struct {
	firstName  string
	lastName   string
	department string
	email      string
}

var roster = []rosterEntry{
	{"Сергей", "Беляев", "Навикон, Директор", "frozen-Tambov@mail.ru"},
	{"Елена", "Орлова", "Навикон, Бухгалтер", "orlova.navicon@bk.ru"},
	{"Вадим", "Василенко", "Навикон, Отдел продаж", "vvvadim1978@gmail.com"},
	{"Людмила", "Потапова", "Навикон, Нач. Склада", "navicon.potapova@bk.ru"},
	{"Михаил", "Зорин", "Навикон, Руководитель Тех. отдел", "navicon_zorin@bk.ru"},
	{"Елена", "Ермакова", "Навикон, Бухгалтерия", "navicon.ermakova@bk.ru"},
	{"Анастасия", "Андросова", "Навикон, Главный Бухгалтер", "navicon.androsova@bk.ru"},
	{"Алексей", "Чиркин", "Навикон, Монтажники", "navicon.chirkin@bk.ru"},
	{"Сергей", "Каширов", "Навикон, Монтажники", "navicon.kashirov@bk.ru"},
	{"Сергей", "Зуев", "Навикон, Монтажники", "navicon.zuev@bk.ru"},
	{"Кирилл", "Кузин", "Навикон, Монтажники", "navicon.kuzin@mail.ru"},
	{"Сергей", "Сысоев", "Навикон, Монтажники", "navicon.sysoev@bk.ru"},
	{"Екатерина", "Котельникова", "Навикон, Бухгалтерия", "navicon_kotelnokova@bk.ru"},
	{"Антон", "Брусникин", "Навикон, Тех. отдел", "antonnavikon@gmail.com"},
	{"Николай", "Прохоров", "Навикон, Проджект менеджер", "navicon-prohorov@bk.ru"},
	{"Иван", "Ушаков", "Навикон, Тех. отдел", "ushakov.navicon@bk.ru"},
	{"Илья", "Демидов", "Навикон, помощник нач. склада", "navicon.demidov@bk.ru"},
	{"Алина", "Панченко", "Навикон, Бухгалтерия", "panchenko.navicon@bk.ru"},
	{"Анастасия", "Горбунова", "Навикон, Отдел продаж", "navicon.anastasiya@mail.ru"},
	{"Влад", "Евдокимов", "Навикон, Монтажники", "navicon.vlad@gmail.com"},
	{"Олег", "Баранов Менеджер", "Навикон, Отдел продаж", "navicon.osina@bk.ru"},
	{"Валерий", "Водяной", "Навикон, Монтажники", "valera.navicon@gmail.com"},
	{"Александр", "Новичков", "Навикон, Монтажники", "Novichkov6891@gmail.com"},
	{"Олеся", "Талова", "Навикон, Отдел продаж", "Olesyatalova@gmail.com"},
	{"Настя", "Проскурякова", "Навикон, Отдел продаж", "proskyryakova.navicon@bk.ru"},
	{"Вадим", "Стариков", "Навикон, Руководитель Отдела продаж", "navicon_starikov@mail.ru"},
	{"Ольга", "Кречетова", "Навикон, Отдел продаж", "navicon_krechetova@bk.ru"},
	{"Евгений", "Лобанов", "Навикон, Руководитель Монтажного отдела", "mc_shoorup@mail.ru"},
	{"Алексей", "Старцев", "Навикон, Тех. отдел", "navicon.startsev@gmail.com"},
	{"Владислав", "Кириллов", "Навикон, Отдел продаж", "kirillovnavicon@gmail.com"},
}

func main() {
	cfg := config.MustLoad()

	if err := repository.RunMigrations(
		cfg.MigrationsDir,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dtb, err := repository.NewDatabase(
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := repo.CountEmployees(ctx)
	if err != nil {
		log.Fatalf("Failed to count employees: %v", err)
	}
	if count > 0 {
		log.Printf("Employee table already has %d records, nothing to seed", count)
		return
	}

	inserted := 0
	for _, entry := range roster {
		lastName, _ := directory.SplitLastName(entry.lastName)
		emp := models.Employee{
			FirstName:  entry.firstName,
			LastName:   lastName,
			Email:      entry.email,
			Department: entry.department,
			Position:   directory.DerivePosition(entry.department, entry.lastName),
		}

		if problems := directory.ValidateEmployee(emp); len(problems) > 0 {
			log.Printf("Skipping %s %s: %v", emp.FirstName, emp.LastName, problems)
			continue
		}

		if _, err = repo.CreateEmployee(ctx, emp); err != nil {
			log.Fatalf("Failed to insert %s %s: %v", emp.FirstName, emp.LastName, err)
		}
		inserted++
	}

	log.Printf("Initial employees inserted: %d", inserted)
}
