package sqlinline

const userColumns = `id::text, email, display_name, photo_url, role, status, coalesce(password_hash, ''), coalesce(google_sub, ''), created_at, updated_at`

const QInsertUser = `--sql d9f99cf5-adf5-497d-9445-44059a59739e
insert into users (id, email, display_name, photo_url, role, status, password_hash, google_sub, created_at, updated_at)
values ($1::uuid, $2, $3, $4, $5, $6, nullif($7, ''), nullif($8, ''), now(), now())
returning ` + userColumns + `;
`

const QUpdateUserProfile = `--sql c0511f96-243d-464f-8f40-2fae8e12f9fb
update users
set display_name = $2,
    photo_url = $3,
    role = $4,
    updated_at = now()
where id = $1::uuid
returning ` + userColumns + `;
`

const QUpsertGoogleUser = `--sql d21225ed-1f62-4ba2-afb9-6693d48d329e
insert into users (id, email, display_name, photo_url, role, status, google_sub, created_at, updated_at)
values ($1::uuid, $2, $3, $4, $5, $6, $7, now(), now())
on conflict (email) do update set
    display_name = case when users.display_name = '' then excluded.display_name else users.display_name end,
    photo_url = case when users.photo_url = '' then excluded.photo_url else users.photo_url end,
    google_sub = excluded.google_sub,
    updated_at = now()
returning ` + userColumns + `;
`

const QSelectUserByID = `--sql 9a3a5f51-cb98-4c0d-8ebb-cb5a02fed473
select ` + userColumns + `
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql f00d65dc-0aa2-4a7d-a953-a7ed8f25fd50
select ` + userColumns + `
from users
where email = $1
limit 1;
`

const QUpdateUserRoleStatus = `--sql 5b8e0c2a-6f0d-4b8e-9c71-3f2d9a14e6b7
update users
set role = $2,
    status = $3,
    updated_at = now()
where id = $1::uuid
returning ` + userColumns + `;
`
