// cmd/seed - Demo data importer
//
// Loads a JSON fixture of users, teams, projects and tasks into the
// configured database. Intended for local development and demos:
//
//	go run ./cmd/seed fixtures/demo.json
package main

import (
	"encoding/json"
	"log"
	"os"

	"taskflow/database"
	"taskflow/models"
	"taskflow/services"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	Users []struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"users"`
	Teams []struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Owner       string   `json:"owner"`   // email
		Members     []string `json:"members"` // emails, added as role member
	} `json:"teams"`
	Projects []struct {
		Team        string `json:"team"` // team name
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"projects"`
	Tasks []struct {
		Project  string `json:"project"` // project name
		Column   string `json:"column"`  // column name, e.g. "To Do"
		Title    string `json:"title"`
		Priority string `json:"priority"`
		Assignee string `json:"assignee"` // email, optional
	} `json:"tasks"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: seed <fixture.json>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal("Failed to read fixture file:", err)
	}

	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		log.Fatal("Failed to parse fixture file:", err)
	}

	database.InitDB()
	db := database.GetDB()

	teamService := services.NewTeamService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db)

	usersByEmail := map[string]*models.User{}
	for _, u := range fix.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		user := &models.User{Name: u.Name, Email: u.Email, Password: string(hash)}
		if err := db.Where("email = ?", u.Email).FirstOrCreate(user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		usersByEmail[u.Email] = user
	}
	log.Printf("✅ Seeded %d users", len(fix.Users))

	teamsByName := map[string]*models.Team{}
	for _, t := range fix.Teams {
		owner, ok := usersByEmail[t.Owner]
		if !ok {
			log.Fatalf("Team %q owner %s not in fixture users", t.Name, t.Owner)
		}
		team, err := teamService.CreateTeam(t.Name, t.Description, owner.ID)
		if err != nil {
			log.Fatalf("Failed to create team %q: %v", t.Name, err)
		}
		for _, email := range t.Members {
			if email == t.Owner {
				continue
			}
			if _, err := teamService.AddMember(team.ID, owner.ID, email, models.TeamRoleMember); err != nil {
				log.Fatalf("Failed to add %s to team %q: %v", email, t.Name, err)
			}
		}
		teamsByName[t.Name] = team
	}
	log.Printf("✅ Seeded %d teams", len(fix.Teams))

	projectsByName := map[string]*models.Project{}
	for _, p := range fix.Projects {
		team, ok := teamsByName[p.Team]
		if !ok {
			log.Fatalf("Project %q references unknown team %q", p.Name, p.Team)
		}
		project, err := projectService.CreateProject(team.OwnerID, team.ID, p.Name, p.Description)
		if err != nil {
			log.Fatalf("Failed to create project %q: %v", p.Name, err)
		}
		projectsByName[p.Name] = project
		log.Printf("   project %q -> key %s", project.Name, project.Key)
	}
	log.Printf("✅ Seeded %d projects", len(fix.Projects))

	created := 0
	for _, t := range fix.Tasks {
		project, ok := projectsByName[t.Project]
		if !ok {
			log.Fatalf("Task %q references unknown project %q", t.Title, t.Project)
		}

		var column models.Column
		err := db.Where("project_id = ? AND name = ?", project.ID, t.Column).First(&column).Error
		if err != nil {
			log.Fatalf("Task %q references unknown column %q in project %q", t.Title, t.Column, t.Project)
		}

		input := services.TaskInput{
			Title:     t.Title,
			ProjectID: project.ID,
			ColumnID:  column.ID,
			Priority:  models.TaskPriority(t.Priority),
		}
		if input.Priority == "" {
			input.Priority = models.PriorityMedium
		}
		if t.Assignee != "" {
			assignee, ok := usersByEmail[t.Assignee]
			if !ok {
				log.Fatalf("Task %q assignee %s not in fixture users", t.Title, t.Assignee)
			}
			input.AssigneeID = &assignee.ID
		}

		if _, err := taskService.CreateTask(project.CreatedByID, input); err != nil {
			log.Fatalf("Failed to create task %q: %v", t.Title, err)
		}
		created++
	}
	log.Printf("✅ Seeded %d tasks", created)
}
