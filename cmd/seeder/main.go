package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/locvowork/employee_directory/internal/bootstrap"
	"github.com/locvowork/employee_directory/internal/config"
	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/logger"
	"github.com/locvowork/employee_directory/internal/repository"
	"github.com/locvowork/employee_directory/internal/service"
)

var (
	firstNames   = []string{"Ada", "Grace", "Alan", "Linus", "Barbara", "Dennis", "Ken", "Margaret", "Donald", "Radia"}
	lastNames    = []string{"Lovelace", "Hopper", "Turing", "Torvalds", "Liskov", "Ritchie", "Thompson", "Hamilton", "Knuth", "Perlman"}
	cities       = []string{"London", "New York", "Hanoi", "Tokyo", "Berlin", "Zurich", "Boston", "Cambridge", "Helsinki", "Oslo"}
	contactTypes = []string{"email", "phone", "slack"}
)

func main() {
	numEmployees := flag.Int("employees", 50, "number of employees to create")
	maxContacts := flag.Int("max-contacts", 3, "maximum contacts per employee")
	flag.Parse()

	ctx := context.Background()

	if err := config.LoadEnvConfig(); err != nil {
		panic(err)
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)

	s, err := bootstrap.NewStore(ctx)
	if err != nil {
		panic(err)
	}
	defer s.Close()

	empRepo := repository.NewEmployeeRepository(s)
	contactRepo := repository.NewContactRepository(s)
	dirSvc := service.NewDirectoryService(empRepo, contactRepo, config.DefaultEnvConfig.LIST_JOIN_WORKERS)

	start := time.Now()
	fmt.Printf("🚀 Seeding %d employees into %q...\n", *numEmployees, config.DefaultEnvConfig.STORE_BACKEND)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for i := 0; i < *numEmployees; i++ {
		name := firstNames[rnd.Intn(len(firstNames))] + " " + lastNames[rnd.Intn(len(lastNames))]
		age := 22 + rnd.Intn(40)
		address := fmt.Sprintf("%d %s Street, %s", 1+rnd.Intn(200), lastNames[rnd.Intn(len(lastNames))], cities[rnd.Intn(len(cities))])

		var contacts []domain.ContactInput
		for c := 0; c < rnd.Intn(*maxContacts+1); c++ {
			contacts = append(contacts, randomContact(rnd, name, c))
		}

		_, err := dirSvc.CreateEmployee(ctx, domain.EmployeeFields{
			Name:    &name,
			Age:     &age,
			Address: &address,
		}, contacts)
		if err != nil {
			logger.ErrorLog(ctx, "failed to seed employee: %v", err)
			continue
		}
		created++
	}

	fmt.Printf("✅ Created %d employees in %v\n", created, time.Since(start))
}

func randomContact(rnd *rand.Rand, name string, n int) domain.ContactInput {
	contactType := contactTypes[rnd.Intn(len(contactTypes))]
	switch contactType {
	case "email":
		return domain.ContactInput{Type: "email", Value: fmt.Sprintf("user%d.%d@example.com", rnd.Intn(10000), n)}
	case "phone":
		return domain.ContactInput{Type: "phone", Value: fmt.Sprintf("+1-555-%04d", rnd.Intn(10000))}
	default:
		return domain.ContactInput{Type: contactType, Value: fmt.Sprintf("@%s%d", name[:3], rnd.Intn(1000))}
	}
}
